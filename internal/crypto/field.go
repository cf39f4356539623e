// Package crypto provides the field-level encryption used for every
// per-user column stored in the budget database, plus the password digest
// used to verify logins.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

// FallbackPlaintext is returned by DecryptField whenever a value cannot be
// decrypted. Numeric columns degrade to zero instead of failing the read.
const FallbackPlaintext = "0.0"

// DefaultKeySize is the key length used for stored transaction fields.
const DefaultKeySize = 16

// Crypto errors.
var (
	ErrInvalidKeySize   = errors.New("invalid AES key size: must be 16, 24, or 32 bytes")
	ErrDecryptionFailed = errors.New("decryption failed")
)

// Key is a symmetric AES key derived from a user's password.
type Key []byte

// DeriveKey hashes password with SHA-256 and truncates the digest to size
// bytes. The same password always yields the same key.
func DeriveKey(password string, size int) (Key, error) {
	switch size {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: got %d", ErrInvalidKeySize, size)
	}

	sum := sha256.Sum256([]byte(password))
	key := make(Key, size)
	copy(key, sum[:size])
	return key, nil
}

// MustDeriveKey is DeriveKey with DefaultKeySize, which cannot fail.
func MustDeriveKey(password string) Key {
	key, err := DeriveKey(password, DefaultKeySize)
	if err != nil {
		panic(err)
	}
	return key
}

// EncryptField encrypts plaintext with AES in ECB mode using PKCS#7 padding
// and returns the standard base64 encoding. Output is deterministic for a
// given key and plaintext, which keeps stored values comparable across
// versions of the database.
func EncryptField(plaintext string, key Key) string {
	block, err := aes.NewCipher(key)
	if err != nil {
		// Keys come from DeriveKey; an invalid size is a programming error.
		panic(fmt.Sprintf("crypto: %v", err))
	}

	data := pad([]byte(plaintext), block.BlockSize())
	out := make([]byte, len(data))
	for start := 0; start < len(data); start += block.BlockSize() {
		block.Encrypt(out[start:start+block.BlockSize()], data[start:start+block.BlockSize()])
	}

	return base64.StdEncoding.EncodeToString(out)
}

// Decrypt reverses EncryptField. Every failure wraps ErrDecryptionFailed so
// callers can observe it before applying the fallback.
func Decrypt(ciphertext string, key Key) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64: %v", ErrDecryptionFailed, err)
	}
	size := block.BlockSize()
	if len(raw) == 0 || len(raw)%size != 0 {
		return "", fmt.Errorf("%w: ciphertext length %d is not a multiple of the block size", ErrDecryptionFailed, len(raw))
	}

	out := make([]byte, len(raw))
	for start := 0; start < len(raw); start += size {
		block.Decrypt(out[start:start+size], raw[start:start+size])
	}

	plain, err := unpad(out, size)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// DecryptField decrypts ciphertext and returns FallbackPlaintext on any error.
func DecryptField(ciphertext string, key Key) string {
	plain, err := Decrypt(ciphertext, key)
	if err != nil {
		return FallbackPlaintext
	}
	return plain
}

func pad(data []byte, size int) []byte {
	n := size - len(data)%size
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, size int) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > size || n > len(data) {
		return nil, fmt.Errorf("%w: bad padding", ErrDecryptionFailed)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: bad padding", ErrDecryptionFailed)
		}
	}
	return data[:len(data)-n], nil
}

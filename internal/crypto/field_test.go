package crypto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "16 bytes", size: 16},
		{name: "24 bytes", size: 24},
		{name: "32 bytes", size: 32},
		{name: "zero rejected", size: 0, wantErr: true},
		{name: "8 bytes rejected", size: 8, wantErr: true},
		{name: "64 bytes rejected", size: 64, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := DeriveKey("hunter2", tt.size)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidKeySize)
				assert.Nil(t, key)
				return
			}
			require.NoError(t, err)
			assert.Len(t, key, tt.size)

			again, err := DeriveKey("hunter2", tt.size)
			require.NoError(t, err)
			assert.Equal(t, key, again, "key derivation must be deterministic")
		})
	}
}

func TestDeriveKey_PrefixOfSHA256(t *testing.T) {
	short, err := DeriveKey("secret", 16)
	require.NoError(t, err)
	long, err := DeriveKey("secret", 32)
	require.NoError(t, err)

	assert.Equal(t, []byte(long[:16]), []byte(short))
	assert.Equal(t, "2bb80d537b1da3e38bd30361aa855686", hexString(short))
}

func TestEncryptField_KnownVectors(t *testing.T) {
	key := MustDeriveKey("secret")

	assert.Equal(t, "ZX+iWs3sH10Af8qRrEKUGA==", EncryptField("5.0", key))
	assert.Equal(t, "Qq1GL3GUDSlRIYp/h9YJZQ==", EncryptField("", key))
}

func TestEncryptField_RoundTrip(t *testing.T) {
	key := MustDeriveKey("correct horse")

	inputs := []string{
		"",
		"0.0",
		"Coffee Shop",
		"2024-01-31",
		"exactly sixteen!",
		"Prélèvement n° 42 — carte bleue",
		"a much longer description that spans several AES blocks for sure",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			enc := EncryptField(in, key)
			assert.NotEqual(t, in, enc)
			assert.Equal(t, enc, EncryptField(in, key), "encryption must be deterministic")
			assert.Equal(t, in, DecryptField(enc, key))
		})
	}
}

func TestDecryptField_Fallback(t *testing.T) {
	key := MustDeriveKey("right")
	other := MustDeriveKey("wrong")

	tests := []struct {
		name       string
		ciphertext string
	}{
		{name: "not base64", ciphertext: "%%%not-base64%%%"},
		{name: "empty", ciphertext: ""},
		{name: "short block", ciphertext: "AAAA"},
		{name: "plaintext number", ciphertext: "12.50"},
		{name: "wrong key", ciphertext: EncryptField("Coffee Shop", other)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, FallbackPlaintext, DecryptField(tt.ciphertext, key))

			_, err := Decrypt(tt.ciphertext, key)
			assert.True(t, errors.Is(err, ErrDecryptionFailed), "got %v", err)
		})
	}
}

func hexString(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, 0, len(b)*2)
	for _, c := range b {
		out = append(out, digits[c>>4], digits[c&0x0f])
	}
	return string(out)
}

package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"unicode/utf16"
)

// HMACPasswordDigest returns the base64 HMAC-SHA-256 of password keyed by
// keyMaterial.
func HMACPasswordDigest(keyMaterial, password string) string {
	mac := hmac.New(sha256.New, []byte(keyMaterial))
	mac.Write([]byte(password))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// PasswordKeyMaterial builds the MAC key for a login: the username followed
// by the decimal combined length of username and password. Lengths are
// counted in UTF-16 code units so digests written by earlier releases still
// verify.
func PasswordKeyMaterial(username, password string) string {
	return username + strconv.Itoa(utf16Len(username)+utf16Len(password))
}

// PasswordDigest is the stored check value for a username and password.
func PasswordDigest(username, password string) string {
	return HMACPasswordDigest(PasswordKeyMaterial(username, password), password)
}

// VerifyPassword compares the digest for username and password against
// stored in constant time.
func VerifyPassword(username, password, stored string) bool {
	return hmac.Equal([]byte(PasswordDigest(username, password)), []byte(stored))
}

func utf16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}

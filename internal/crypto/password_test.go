package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordKeyMaterial(t *testing.T) {
	assert.Equal(t, "alice8", PasswordKeyMaterial("alice", "pw1"))
	assert.Equal(t, "bob3", PasswordKeyMaterial("bob", ""))
	// "é" is one UTF-16 code unit but two UTF-8 bytes.
	assert.Equal(t, "zoé4", PasswordKeyMaterial("zoé", "x"))
}

func TestPasswordDigest(t *testing.T) {
	assert.Equal(t, "J3e6RvBcI09Y3DyxzAEaDKyH5GxiiWKjwmu7RU/RFZI=", PasswordDigest("alice", "pw1"))
	assert.Equal(t, HMACPasswordDigest("alice8", "pw1"), PasswordDigest("alice", "pw1"))
	assert.NotEqual(t, PasswordDigest("alice", "pw1"), PasswordDigest("alice", "pw2"))
}

func TestVerifyPassword(t *testing.T) {
	stored := PasswordDigest("alice", "pw1")

	assert.True(t, VerifyPassword("alice", "pw1", stored))
	assert.False(t, VerifyPassword("alice", "pw2", stored))
	assert.False(t, VerifyPassword("alicf", "pw1", stored))
}

package cryptox

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_KnownVector(t *testing.T) {
	got := HashPassword("correct horse", "00112233445566778899aabbccddeeff")
	assert.Equal(t, "2174a8e5b9135716d9a0e9c6933dfca9c8d70351397ac9903e5c9eb39fc8b916", got)
}

func TestHashPassword_SaltMatters(t *testing.T) {
	a := HashPassword("secret-password", "salt-1")
	b := HashPassword("secret-password", "salt-2")
	assert.NotEqual(t, a, b)
	assert.Len(t, a, PasswordKeyLen*2)
}

func TestVerifyPassword(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)
	require.Len(t, salt, SaltSize*2)
	_, err = hex.DecodeString(salt)
	require.NoError(t, err)

	hash := HashPassword("hunter2hunter2", salt)
	assert.True(t, VerifyPassword("hunter2hunter2", salt, hash))
	assert.False(t, VerifyPassword("hunter2hunter3", salt, hash))
	assert.False(t, VerifyPassword("hunter2hunter2", salt, hash[:10]))
}

func TestConstantTimeEqual(t *testing.T) {
	assert.True(t, ConstantTimeEqual("abc", "abc"))
	assert.False(t, ConstantTimeEqual("abc", "abd"))
	assert.False(t, ConstantTimeEqual("abc", "ab"))
	assert.True(t, ConstantTimeEqual("", ""))
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t,
		"40c586f5d87dd34c97e0331962b709a6cb9ece888b5b57b6051e29b44f8cad98",
		Fingerprint([]byte("secret"), "1.2.3.4"))
	assert.NotEqual(t, Fingerprint([]byte("secret"), "1.2.3.4"), Fingerprint([]byte("other"), "1.2.3.4"))
}

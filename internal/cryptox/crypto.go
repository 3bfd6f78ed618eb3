// Package cryptox wraps the hashing primitives used for account credentials
// and anonymous caller fingerprints.
package cryptox

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/natorvoice/natorvoice/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// PasswordIterations is the PBKDF2-SHA256 work factor for stored passwords.
	PasswordIterations = 120000
	// PasswordKeyLen is the derived key size in bytes.
	PasswordKeyLen = 32
	// SaltSize is the number of random bytes behind a hex salt.
	SaltSize = 16
)

// NewSalt returns a fresh random salt as a 32-char hex string.
func NewSalt() (string, error) {
	return common.MakeRandHexString(SaltSize)
}

// HashPassword derives the hex PBKDF2-SHA256 hash of password. The salt is
// used as its literal string bytes, matching records written by earlier
// deployments.
func HashPassword(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), PasswordIterations, PasswordKeyLen, sha256.New)
	return hex.EncodeToString(key)
}

// VerifyPassword reports whether password hashes to wantHash under salt.
func VerifyPassword(password, salt, wantHash string) bool {
	return ConstantTimeEqual(HashPassword(password, salt), wantHash)
}

// ConstantTimeEqual compares two strings without leaking timing information
// about where they differ.
func ConstantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Fingerprint returns hex HMAC-SHA256(key, value). Used to derive stable,
// non-reversible identities from client addresses.
func Fingerprint(key []byte, value string) string {
	m := hmac.New(sha256.New, key)
	m.Write([]byte(value))
	return hex.EncodeToString(m.Sum(nil))
}

package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
)

var ErrInvalidToken = errors.New("invalid token")

// tokenBytes is the entropy of every generated token (256 bits).
const tokenBytes = 32

// TokenManager generates opaque random tokens for session identifiers and
// CSRF protection.
type TokenManager struct{}

// NewTokenManager creates a new token manager.
func NewTokenManager() *TokenManager {
	return &TokenManager{}
}

// Generate returns a 64-character hex token.
func (tm *TokenManager) Generate() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Verify compares a submitted token to the expected one in constant time.
func (tm *TokenManager) Verify(expected, submitted string) error {
	if expected == "" || submitted == "" {
		return ErrInvalidToken
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) != 1 {
		return ErrInvalidToken
	}
	return nil
}

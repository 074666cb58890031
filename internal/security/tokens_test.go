package security

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_Generate(t *testing.T) {
	tm := NewTokenManager()

	token, err := tm.Generate()
	require.NoError(t, err)

	assert.Len(t, token, 64)
	_, err = hex.DecodeString(token)
	assert.NoError(t, err, "token should be valid hex")
}

func TestTokenManager_Generate_Uniqueness(t *testing.T) {
	tm := NewTokenManager()
	seen := make(map[string]bool)

	for i := 0; i < 200; i++ {
		token, err := tm.Generate()
		require.NoError(t, err)
		assert.False(t, seen[token], "duplicate token generated")
		seen[token] = true
	}
}

func TestTokenManager_Verify(t *testing.T) {
	tm := NewTokenManager()

	tests := []struct {
		name      string
		expected  string
		submitted string
		wantErr   bool
	}{
		{"match", "abc123", "abc123", false},
		{"mismatch", "abc123", "abc124", true},
		{"different_length", "abc123", "abc", true},
		{"empty_submitted", "abc123", "", true},
		{"empty_expected", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tm.Verify(tt.expected, tt.submitted)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

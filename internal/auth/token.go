package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

// SessionTokenLen is the hex length of a session token (32 random bytes).
const SessionTokenLen = 64

var (
	// ErrInvalidTokenFormat indicates a cookie value that cannot be a session token.
	ErrInvalidTokenFormat = errors.New("invalid session token format")

	tokenFormatRegex = regexp.MustCompile(`^[a-f0-9]{64}$`)
)

// GenerateSessionToken returns a new opaque session token.
// The plaintext goes into the cookie only; storage uses HashToken.
func GenerateSessionToken() (string, error) {
	b := make([]byte, SessionTokenLen/2)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// ValidateTokenFormat checks if the token matches the expected format.
func ValidateTokenFormat(token string) error {
	if !tokenFormatRegex.MatchString(token) {
		return ErrInvalidTokenFormat
	}
	return nil
}

// HashToken returns the SHA-256 digest of a session token for use as a store key.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

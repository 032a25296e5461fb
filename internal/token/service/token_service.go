// Package service implements token generation and hashing.
package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	apperrors "github.com/eduvault/eduvault/internal/errors"
)

// TokenService generates opaque access tokens and hashes them for storage.
type TokenService interface {
	// GenerateToken creates a new random token. Returns the plain token and its
	// SHA-256 hash; only the hash is ever persisted.
	GenerateToken() (plainToken string, tokenHash string, err error)

	// HashToken hashes a plain token for lookup.
	HashToken(plainToken string) string
}

// tokenService implements TokenService using SHA-256 for token hashing.
type tokenService struct{}

// NewTokenService creates a new TokenService instance.
func NewTokenService() TokenService {
	return &tokenService{}
}

// GenerateToken creates a cryptographically secure 32-byte random token,
// base64 URL-encoded for transmission.
func (t *tokenService) GenerateToken() (string, string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random token")
	}

	plainToken := base64.RawURLEncoding.EncodeToString(randomBytes)
	return plainToken, t.HashToken(plainToken), nil
}

// HashToken hashes a plain token using SHA-256, hex encoded.
func (t *tokenService) HashToken(plainToken string) string {
	hash := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(hash[:])
}

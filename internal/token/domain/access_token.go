// Package domain defines the access token entities of the token issuer.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Purpose scopes an access token to a single operation class.
type Purpose string

// Token purposes. A token issued for one purpose cannot be redeemed for the other.
const (
	PurposeDownload Purpose = "download"
	PurposeDecrypt  Purpose = "decrypt"
)

// Valid reports whether the purpose is one of the known values.
func (p Purpose) Valid() bool {
	return p == PurposeDownload || p == PurposeDecrypt
}

// AccessToken is a single-use, purpose-scoped, short-lived grant for one
// resource. Only the SHA-256 hash of the token is stored; the plain token is
// returned to the caller exactly once at issuance.
type AccessToken struct {
	ID          uuid.UUID
	TokenHash   string
	ResourceID  uuid.UUID
	PrincipalID string
	Purpose     Purpose
	IssuedAt    time.Time
	ExpiresAt   time.Time
	RedeemedAt  *time.Time
}

// IsExpired reports whether the token's validity window has passed at the
// given instant.
func (t *AccessToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}

// Package usecase implements the access token issuer and redeemer.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	contentDomain "github.com/eduvault/eduvault/internal/content/domain"
	tokenDomain "github.com/eduvault/eduvault/internal/token/domain"
)

// TokenRepository defines the persistence contract for access tokens.
type TokenRepository interface {
	Create(ctx context.Context, token *tokenDomain.AccessToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*tokenDomain.AccessToken, error)
	// Redeem atomically claims the token; it reports false when the token was
	// already redeemed.
	Redeem(ctx context.Context, tokenID uuid.UUID, redeemedAt time.Time) (bool, error)
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// IssuedToken is what the issuer returns to the caller. The plain token
// appears here exactly once and is never stored.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenUseCase issues and redeems single-use, purpose-scoped access tokens.
type TokenUseCase interface {
	// Issue creates a token for the principal after an entitlement check.
	// Returns ErrNotEntitled when the principal has no grant for the resource.
	Issue(
		ctx context.Context,
		principalID string,
		resourceID uuid.UUID,
		purpose tokenDomain.Purpose,
	) (*IssuedToken, error)

	// RedeemDownload burns a download token and returns the encrypted blob.
	RedeemDownload(ctx context.Context, plainToken string) (contentDomain.EncryptedBlob, error)

	// RedeemDecrypt burns a decrypt token and returns the per-resource access
	// key the client derives its content key from.
	RedeemDecrypt(ctx context.Context, plainToken string) (string, error)

	// CleanupExpired deletes tokens whose expiry lies more than olderThan in
	// the past and returns the number of rows removed.
	CleanupExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

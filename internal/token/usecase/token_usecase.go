package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	catalogUsecase "github.com/eduvault/eduvault/internal/catalog/usecase"
	"github.com/eduvault/eduvault/internal/config"
	contentDomain "github.com/eduvault/eduvault/internal/content/domain"
	contentUsecase "github.com/eduvault/eduvault/internal/content/usecase"
	cryptoUsecase "github.com/eduvault/eduvault/internal/crypto/usecase"
	entitlementUsecase "github.com/eduvault/eduvault/internal/entitlement/usecase"
	apperrors "github.com/eduvault/eduvault/internal/errors"
	tokenDomain "github.com/eduvault/eduvault/internal/token/domain"
	tokenService "github.com/eduvault/eduvault/internal/token/service"
)

// tokenUseCase implements TokenUseCase.
type tokenUseCase struct {
	config       *config.Config
	tokenRepo    TokenRepository
	tokenService tokenService.TokenService
	entitlements entitlementUsecase.Checker
	resources    catalogUsecase.ResourceUseCase
	content      contentUsecase.ContentUseCase
	keys         cryptoUsecase.KeyUseCase
}

// NewTokenUseCase creates a new TokenUseCase with the provided dependencies.
func NewTokenUseCase(
	cfg *config.Config,
	tokenRepo TokenRepository,
	svc tokenService.TokenService,
	entitlements entitlementUsecase.Checker,
	resources catalogUsecase.ResourceUseCase,
	content contentUsecase.ContentUseCase,
	keys cryptoUsecase.KeyUseCase,
) TokenUseCase {
	return &tokenUseCase{
		config:       cfg,
		tokenRepo:    tokenRepo,
		tokenService: svc,
		entitlements: entitlements,
		resources:    resources,
		content:      content,
		keys:         keys,
	}
}

// Issue creates a single-use token for the principal.
//
// The entitlement check happens here, at issuance, so redemption only has to
// validate the token itself. Tokens expire on their own short clock; the
// offline retention window of downloaded content is a separate concern.
func (t *tokenUseCase) Issue(
	ctx context.Context,
	principalID string,
	resourceID uuid.UUID,
	purpose tokenDomain.Purpose,
) (*IssuedToken, error) {
	if !purpose.Valid() {
		return nil, tokenDomain.ErrInvalidPurpose
	}

	resource, err := t.resources.Resolve(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	entitled, err := t.entitlements.IsEntitled(ctx, principalID, resource)
	if err != nil {
		return nil, err
	}
	if !entitled {
		return nil, apperrors.ErrNotEntitled
	}

	plainToken, tokenHash, err := t.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	token := &tokenDomain.AccessToken{
		ID:          uuid.Must(uuid.NewV7()),
		TokenHash:   tokenHash,
		ResourceID:  resourceID,
		PrincipalID: principalID,
		Purpose:     purpose,
		IssuedAt:    now,
		ExpiresAt:   now.Add(t.config.AccessTokenTTL),
		RedeemedAt:  nil,
	}

	if err := t.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	return &IssuedToken{
		Token:     plainToken,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// RedeemDownload burns a download token and returns the encrypted blob.
func (t *tokenUseCase) RedeemDownload(
	ctx context.Context,
	plainToken string,
) (contentDomain.EncryptedBlob, error) {
	token, err := t.redeem(ctx, plainToken, tokenDomain.PurposeDownload)
	if err != nil {
		return nil, err
	}
	return t.content.GetEncryptedContent(ctx, token.ResourceID)
}

// RedeemDecrypt burns a decrypt token and returns the per-resource access key.
func (t *tokenUseCase) RedeemDecrypt(ctx context.Context, plainToken string) (string, error) {
	token, err := t.redeem(ctx, plainToken, tokenDomain.PurposeDecrypt)
	if err != nil {
		return "", err
	}
	return t.keys.AccessKey(token.ResourceID.String()), nil
}

// CleanupExpired deletes tokens whose expiry lies more than olderThan in the
// past. Freshly expired tokens are kept for a while so redemption attempts
// keep reporting token_expired instead of unauthorized.
func (t *tokenUseCase) CleanupExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	return t.tokenRepo.DeleteExpired(ctx, cutoff)
}

// redeem validates and atomically claims a token for the given purpose.
//
// Validation order matters for the caller's remediation path: a purpose
// mismatch or expiry is reported before the token is burned, so a client that
// presented the wrong token still holds a usable one. The claim itself is a
// conditional update; losing the race reports ErrTokenAlreadyUsed.
func (t *tokenUseCase) redeem(
	ctx context.Context,
	plainToken string,
	purpose tokenDomain.Purpose,
) (*tokenDomain.AccessToken, error) {
	token, err := t.tokenRepo.GetByTokenHash(ctx, t.tokenService.HashToken(plainToken))
	if err != nil {
		return nil, err
	}

	if token.Purpose != purpose {
		return nil, apperrors.ErrTokenPurposeMismatch
	}

	now := time.Now().UTC()
	if token.IsExpired(now) {
		return nil, apperrors.ErrTokenExpired
	}

	claimed, err := t.tokenRepo.Redeem(ctx, token.ID, now)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, apperrors.ErrTokenAlreadyUsed
	}

	return token, nil
}

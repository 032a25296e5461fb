package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	contentDomain "github.com/eduvault/eduvault/internal/content/domain"
	"github.com/eduvault/eduvault/internal/metrics"
	tokenDomain "github.com/eduvault/eduvault/internal/token/domain"
)

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Issue records metrics for token issuance.
func (t *tokenUseCaseWithMetrics) Issue(
	ctx context.Context,
	principalID string,
	resourceID uuid.UUID,
	purpose tokenDomain.Purpose,
) (*IssuedToken, error) {
	start := time.Now()
	token, err := t.next.Issue(ctx, principalID, resourceID, purpose)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "token_issue", status)
	t.metrics.RecordDuration(ctx, "token", "token_issue", time.Since(start), status)

	return token, err
}

// RedeemDownload records metrics for download token redemption.
func (t *tokenUseCaseWithMetrics) RedeemDownload(
	ctx context.Context,
	plainToken string,
) (contentDomain.EncryptedBlob, error) {
	start := time.Now()
	blob, err := t.next.RedeemDownload(ctx, plainToken)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "token_redeem_download", status)
	t.metrics.RecordDuration(ctx, "token", "token_redeem_download", time.Since(start), status)

	return blob, err
}

// RedeemDecrypt records metrics for decrypt token redemption.
func (t *tokenUseCaseWithMetrics) RedeemDecrypt(ctx context.Context, plainToken string) (string, error) {
	start := time.Now()
	accessKey, err := t.next.RedeemDecrypt(ctx, plainToken)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "token_redeem_decrypt", status)
	t.metrics.RecordDuration(ctx, "token", "token_redeem_decrypt", time.Since(start), status)

	return accessKey, err
}

// CleanupExpired records metrics for expired token cleanup.
func (t *tokenUseCaseWithMetrics) CleanupExpired(
	ctx context.Context,
	olderThan time.Duration,
) (int64, error) {
	start := time.Now()
	count, err := t.next.CleanupExpired(ctx, olderThan)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "token_cleanup_expired", status)
	t.metrics.RecordDuration(ctx, "token", "token_cleanup_expired", time.Since(start), status)

	return count, err
}

package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/eduvault/eduvault/internal/metrics"
)

// offlineUseCaseWithMetrics decorates OfflineUseCase with metrics instrumentation.
type offlineUseCaseWithMetrics struct {
	next    OfflineUseCase
	metrics metrics.BusinessMetrics
}

// NewOfflineUseCaseWithMetrics wraps an OfflineUseCase with metrics recording.
func NewOfflineUseCaseWithMetrics(useCase OfflineUseCase, m metrics.BusinessMetrics) OfflineUseCase {
	return &offlineUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (o *offlineUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	o.metrics.RecordOperation(ctx, "offline", operation, status)
	o.metrics.RecordDuration(ctx, "offline", operation, time.Since(start), status)
}

// RegisterDownload records metrics for download registration.
func (o *offlineUseCaseWithMetrics) RegisterDownload(
	ctx context.Context,
	principalID string,
	resourceID uuid.UUID,
) (*RecordStatus, error) {
	start := time.Now()
	result, err := o.next.RegisterDownload(ctx, principalID, resourceID)
	o.record(ctx, "offline_register", start, err)
	return result, err
}

// Get records metrics for single record reads.
func (o *offlineUseCaseWithMetrics) Get(
	ctx context.Context,
	principalID string,
	resourceID uuid.UUID,
) (*RecordStatus, error) {
	start := time.Now()
	result, err := o.next.Get(ctx, principalID, resourceID)
	o.record(ctx, "offline_get", start, err)
	return result, err
}

// List records metrics for record listing.
func (o *offlineUseCaseWithMetrics) List(ctx context.Context, principalID string) ([]*RecordStatus, error) {
	start := time.Now()
	result, err := o.next.List(ctx, principalID)
	o.record(ctx, "offline_list", start, err)
	return result, err
}

// Touch records metrics for access touches.
func (o *offlineUseCaseWithMetrics) Touch(
	ctx context.Context,
	principalID string,
	resourceID uuid.UUID,
) (*RecordStatus, error) {
	start := time.Now()
	result, err := o.next.Touch(ctx, principalID, resourceID)
	o.record(ctx, "offline_touch", start, err)
	return result, err
}

// Delete records metrics for record deletion.
func (o *offlineUseCaseWithMetrics) Delete(
	ctx context.Context,
	principalID string,
	resourceID uuid.UUID,
) error {
	start := time.Now()
	err := o.next.Delete(ctx, principalID, resourceID)
	o.record(ctx, "offline_delete", start, err)
	return err
}

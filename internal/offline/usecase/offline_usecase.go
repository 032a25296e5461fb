package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/eduvault/eduvault/internal/config"
	offlineDomain "github.com/eduvault/eduvault/internal/offline/domain"
)

// offlineUseCase implements OfflineUseCase. Status is always derived at read
// time from the download timestamp and the retention window; nothing here
// mutates records on expiry.
type offlineUseCase struct {
	repo      OfflineRepository
	retention time.Duration
}

// NewOfflineUseCase creates a new OfflineUseCase.
func NewOfflineUseCase(cfg *config.Config, repo OfflineRepository) OfflineUseCase {
	return &offlineUseCase{
		repo:      repo,
		retention: cfg.OfflineRetention,
	}
}

// RegisterDownload records a completed download.
func (o *offlineUseCase) RegisterDownload(
	ctx context.Context,
	principalID string,
	resourceID uuid.UUID,
) (*RecordStatus, error) {
	now := time.Now().UTC()
	record := &offlineDomain.OfflineRecord{
		ID:             uuid.Must(uuid.NewV7()),
		PrincipalID:    principalID,
		ResourceID:     resourceID,
		DownloadedAt:   now,
		LastAccessedAt: now,
	}

	if err := o.repo.Upsert(ctx, record); err != nil {
		return nil, err
	}

	return o.withStatus(record, now), nil
}

// Get returns the record for one resource with its derived status.
func (o *offlineUseCase) Get(
	ctx context.Context,
	principalID string,
	resourceID uuid.UUID,
) (*RecordStatus, error) {
	record, err := o.repo.Get(ctx, principalID, resourceID)
	if err != nil {
		return nil, err
	}
	return o.withStatus(record, time.Now().UTC()), nil
}

// List returns all of the principal's records with derived statuses.
func (o *offlineUseCase) List(ctx context.Context, principalID string) ([]*RecordStatus, error) {
	records, err := o.repo.ListByPrincipal(ctx, principalID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	statuses := make([]*RecordStatus, 0, len(records))
	for _, record := range records {
		statuses = append(statuses, o.withStatus(record, now))
	}
	return statuses, nil
}

// Touch records a playback access.
func (o *offlineUseCase) Touch(
	ctx context.Context,
	principalID string,
	resourceID uuid.UUID,
) (*RecordStatus, error) {
	now := time.Now().UTC()
	if err := o.repo.Touch(ctx, principalID, resourceID, now); err != nil {
		return nil, err
	}

	record, err := o.repo.Get(ctx, principalID, resourceID)
	if err != nil {
		return nil, err
	}
	return o.withStatus(record, now), nil
}

// Delete removes the record.
func (o *offlineUseCase) Delete(ctx context.Context, principalID string, resourceID uuid.UUID) error {
	return o.repo.Delete(ctx, principalID, resourceID)
}

func (o *offlineUseCase) withStatus(record *offlineDomain.OfflineRecord, now time.Time) *RecordStatus {
	return &RecordStatus{
		Record:    record,
		Status:    record.StatusAt(now, o.retention),
		ExpiresAt: record.ExpiresAt(o.retention),
	}
}

// Package usecase implements the server-side offline download registry.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	offlineDomain "github.com/eduvault/eduvault/internal/offline/domain"
)

// OfflineRepository defines the persistence contract for offline records.
type OfflineRepository interface {
	Upsert(ctx context.Context, record *offlineDomain.OfflineRecord) error
	Get(ctx context.Context, principalID string, resourceID uuid.UUID) (*offlineDomain.OfflineRecord, error)
	ListByPrincipal(ctx context.Context, principalID string) ([]*offlineDomain.OfflineRecord, error)
	Touch(ctx context.Context, principalID string, resourceID uuid.UUID, accessedAt time.Time) error
	Delete(ctx context.Context, principalID string, resourceID uuid.UUID) error
}

// RecordStatus is an offline record together with its derived status.
type RecordStatus struct {
	Record    *offlineDomain.OfflineRecord
	Status    offlineDomain.Status
	ExpiresAt time.Time
}

// OfflineUseCase manages the registry of what each principal holds offline.
type OfflineUseCase interface {
	// RegisterDownload records a completed download. Re-downloading restarts
	// the retention window.
	RegisterDownload(ctx context.Context, principalID string, resourceID uuid.UUID) (*RecordStatus, error)

	// Get returns the record for one resource with its derived status.
	Get(ctx context.Context, principalID string, resourceID uuid.UUID) (*RecordStatus, error)

	// List returns all of the principal's records with derived statuses.
	List(ctx context.Context, principalID string) ([]*RecordStatus, error)

	// Touch records a playback access. Expired records can still be touched;
	// expiry never blocks local playback.
	Touch(ctx context.Context, principalID string, resourceID uuid.UUID) (*RecordStatus, error)

	// Delete removes the record.
	Delete(ctx context.Context, principalID string, resourceID uuid.UUID) error
}

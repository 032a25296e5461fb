// Package usecase implements the content encryption store.
package usecase

import (
	"context"

	"github.com/google/uuid"

	contentDomain "github.com/eduvault/eduvault/internal/content/domain"
)

// BlobRepository defines the persistence contract for encrypted blobs.
type BlobRepository interface {
	Create(ctx context.Context, resourceID uuid.UUID, blob contentDomain.EncryptedBlob) error
	Get(ctx context.Context, resourceID uuid.UUID) (contentDomain.EncryptedBlob, error)
}

// ContentUseCase serves encrypted resource content.
type ContentUseCase interface {
	// GetEncryptedContent returns the encrypted blob for a resource, encrypting
	// it from the origin on first request. Repeated requests for the same
	// resource return byte-identical blobs.
	GetEncryptedContent(ctx context.Context, resourceID uuid.UUID) (contentDomain.EncryptedBlob, error)
}

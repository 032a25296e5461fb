// Package usecase implements business logic for the resource catalog.
package usecase

import (
	"context"

	"github.com/google/uuid"

	catalogDomain "github.com/eduvault/eduvault/internal/catalog/domain"
)

// ResourceRepository defines the persistence contract for catalog entries.
type ResourceRepository interface {
	Create(ctx context.Context, resource *catalogDomain.Resource) error
	Get(ctx context.Context, resourceID uuid.UUID) (*catalogDomain.Resource, error)
}

// ResourceUseCase resolves resource metadata for the offline access subsystem.
type ResourceUseCase interface {
	// Resolve returns the catalog entry for the resource id.
	Resolve(ctx context.Context, resourceID uuid.UUID) (*catalogDomain.Resource, error)
}

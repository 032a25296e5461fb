package usecase

import (
	"context"

	"github.com/google/uuid"

	catalogDomain "github.com/eduvault/eduvault/internal/catalog/domain"
)

// resourceUseCase implements ResourceUseCase over a ResourceRepository.
type resourceUseCase struct {
	resourceRepo ResourceRepository
}

// NewResourceUseCase creates a new ResourceUseCase with the provided repository.
func NewResourceUseCase(resourceRepo ResourceRepository) ResourceUseCase {
	return &resourceUseCase{resourceRepo: resourceRepo}
}

// Resolve returns the catalog entry for the resource id.
// Returns ErrResourceNotFound when the id is unknown.
func (r *resourceUseCase) Resolve(
	ctx context.Context,
	resourceID uuid.UUID,
) (*catalogDomain.Resource, error) {
	return r.resourceRepo.Get(ctx, resourceID)
}

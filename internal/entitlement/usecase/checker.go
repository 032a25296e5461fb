package usecase

import (
	"context"

	catalogDomain "github.com/eduvault/eduvault/internal/catalog/domain"
)

// checker implements Checker over an EntitlementRepository.
//
// A principal is entitled to a resource when it either holds a direct
// per-resource grant or is a member of the course the resource belongs to.
// Resources outside any course are only reachable through direct grants.
type checker struct {
	entitlementRepo EntitlementRepository
}

// NewChecker creates the entitlement gate with the provided repository.
func NewChecker(entitlementRepo EntitlementRepository) Checker {
	return &checker{entitlementRepo: entitlementRepo}
}

// IsEntitled reports whether the principal may access the resource.
func (c *checker) IsEntitled(
	ctx context.Context,
	principalID string,
	resource *catalogDomain.Resource,
) (bool, error) {
	granted, err := c.entitlementRepo.HasResourceGrant(ctx, principalID, resource.ID)
	if err != nil {
		return false, err
	}
	if granted {
		return true, nil
	}

	if resource.CourseID == nil {
		return false, nil
	}

	return c.entitlementRepo.HasCourseGrant(ctx, principalID, *resource.CourseID)
}

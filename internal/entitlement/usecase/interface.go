// Package usecase implements the entitlement gate consumed by the token issuer.
package usecase

import (
	"context"

	"github.com/google/uuid"

	catalogDomain "github.com/eduvault/eduvault/internal/catalog/domain"
	entitlementDomain "github.com/eduvault/eduvault/internal/entitlement/domain"
)

// EntitlementRepository defines the persistence contract for entitlements.
type EntitlementRepository interface {
	// Create inserts a new entitlement row.
	Create(ctx context.Context, entitlement *entitlementDomain.Entitlement) error

	// HasResourceGrant reports whether the principal holds a direct grant for the resource.
	HasResourceGrant(ctx context.Context, principalID string, resourceID uuid.UUID) (bool, error)

	// HasCourseGrant reports whether the principal is a member of the course.
	HasCourseGrant(ctx context.Context, principalID string, courseID uuid.UUID) (bool, error)
}

// Checker is the entitlement gate: it decides whether a principal may access a
// resource. The rest of the system treats it as a leaf dependency.
type Checker interface {
	IsEntitled(ctx context.Context, principalID string, resource *catalogDomain.Resource) (bool, error)
}

package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	catalogDomain "github.com/eduvault/eduvault/internal/catalog/domain"
	"github.com/eduvault/eduvault/internal/database"
	entitlementDomain "github.com/eduvault/eduvault/internal/entitlement/domain"
	apperrors "github.com/eduvault/eduvault/internal/errors"
)

// EntitlementWriter persists grants created during provisioning.
type EntitlementWriter interface {
	Create(ctx context.Context, entitlement *entitlementDomain.Entitlement) error
}

// CreateResourceInput carries the catalog fields for a new protected resource.
// GrantPrincipalIDs optionally lists principals that receive a direct grant in
// the same transaction, so a resource never becomes visible without its
// initial audience.
type CreateResourceInput struct {
	URL               string
	Type              catalogDomain.ResourceType
	Title             string
	FileSizeBytes     int64
	CourseID          *uuid.UUID
	ModuleID          *uuid.UUID
	GrantPrincipalIDs []string
}

// Registrar provisions catalog entries and entitlement grants. It backs the
// admin CLI; the HTTP surface only ever reads the catalog.
type Registrar interface {
	CreateResource(ctx context.Context, input CreateResourceInput) (*catalogDomain.Resource, error)
	GrantResourceAccess(ctx context.Context, principalID string, resourceID uuid.UUID) (*entitlementDomain.Entitlement, error)
	GrantCourseAccess(ctx context.Context, principalID string, courseID uuid.UUID) (*entitlementDomain.Entitlement, error)
}

// registrar implements Registrar.
type registrar struct {
	txManager    database.TxManager
	resourceRepo ResourceRepository
	entitlements EntitlementWriter
}

// NewRegistrar creates a Registrar with the provided dependencies.
func NewRegistrar(
	txManager database.TxManager,
	resourceRepo ResourceRepository,
	entitlements EntitlementWriter,
) Registrar {
	return &registrar{
		txManager:    txManager,
		resourceRepo: resourceRepo,
		entitlements: entitlements,
	}
}

// CreateResource inserts the catalog entry and its initial grants in one
// transaction.
func (r *registrar) CreateResource(
	ctx context.Context,
	input CreateResourceInput,
) (*catalogDomain.Resource, error) {
	if input.URL == "" || input.Title == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "url and title are required")
	}
	if !validResourceType(input.Type) {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "type must be video, audio, or document")
	}

	resource := &catalogDomain.Resource{
		ID:            uuid.Must(uuid.NewV7()),
		URL:           input.URL,
		Type:          input.Type,
		Title:         input.Title,
		FileSizeBytes: input.FileSizeBytes,
		CourseID:      input.CourseID,
		ModuleID:      input.ModuleID,
		CreatedAt:     time.Now().UTC(),
	}

	err := r.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := r.resourceRepo.Create(ctx, resource); err != nil {
			return err
		}
		for _, principalID := range input.GrantPrincipalIDs {
			grant := newGrant(principalID)
			grant.ResourceID = &resource.ID
			if err := r.entitlements.Create(ctx, grant); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resource, nil
}

// GrantResourceAccess gives the principal a direct grant for one resource.
// The resource must exist; a grant for an unknown resource would be
// unredeemable anyway.
func (r *registrar) GrantResourceAccess(
	ctx context.Context,
	principalID string,
	resourceID uuid.UUID,
) (*entitlementDomain.Entitlement, error) {
	if principalID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "principal id is required")
	}

	if _, err := r.resourceRepo.Get(ctx, resourceID); err != nil {
		return nil, err
	}

	grant := newGrant(principalID)
	grant.ResourceID = &resourceID
	if err := r.entitlements.Create(ctx, grant); err != nil {
		return nil, err
	}
	return grant, nil
}

// GrantCourseAccess enrolls the principal into a course, covering every
// resource that belongs to it.
func (r *registrar) GrantCourseAccess(
	ctx context.Context,
	principalID string,
	courseID uuid.UUID,
) (*entitlementDomain.Entitlement, error) {
	if principalID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "principal id is required")
	}

	grant := newGrant(principalID)
	grant.CourseID = &courseID
	if err := r.entitlements.Create(ctx, grant); err != nil {
		return nil, err
	}
	return grant, nil
}

func newGrant(principalID string) *entitlementDomain.Entitlement {
	return &entitlementDomain.Entitlement{
		ID:          uuid.Must(uuid.NewV7()),
		PrincipalID: principalID,
		CreatedAt:   time.Now().UTC(),
	}
}

func validResourceType(t catalogDomain.ResourceType) bool {
	switch t {
	case catalogDomain.ResourceTypeVideo, catalogDomain.ResourceTypeAudio, catalogDomain.ResourceTypeDocument:
		return true
	default:
		return false
	}
}

package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/eduvault/eduvault/internal/database"
	entitlementDomain "github.com/eduvault/eduvault/internal/entitlement/domain"
	apperrors "github.com/eduvault/eduvault/internal/errors"
)

// MySQLEntitlementRepository implements Entitlement persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLEntitlementRepository struct {
	db *sql.DB
}

// NewMySQLEntitlementRepository creates a new MySQL Entitlement repository.
func NewMySQLEntitlementRepository(db *sql.DB) *MySQLEntitlementRepository {
	return &MySQLEntitlementRepository{db: db}
}

// Create inserts a new entitlement row using BINARY(16) for UUIDs.
func (m *MySQLEntitlementRepository) Create(
	ctx context.Context,
	entitlement *entitlementDomain.Entitlement,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO entitlements (id, principal_id, resource_id, course_id, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	id, err := entitlement.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal entitlement id")
	}

	resourceID, err := marshalOptionalUUID(entitlement.ResourceID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal resource id")
	}

	courseID, err := marshalOptionalUUID(entitlement.CourseID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal course id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		entitlement.PrincipalID,
		resourceID,
		courseID,
		entitlement.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create entitlement")
	}
	return nil
}

// HasResourceGrant reports whether the principal holds a direct grant for the resource.
func (m *MySQLEntitlementRepository) HasResourceGrant(
	ctx context.Context,
	principalID string,
	resourceID uuid.UUID,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT EXISTS (
				SELECT 1 FROM entitlements WHERE principal_id = ? AND resource_id = ?
			  )`

	id, err := resourceID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal resource id")
	}

	var exists bool
	if err := querier.QueryRowContext(ctx, query, principalID, id).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check resource grant")
	}
	return exists, nil
}

// HasCourseGrant reports whether the principal is a member of the course.
func (m *MySQLEntitlementRepository) HasCourseGrant(
	ctx context.Context,
	principalID string,
	courseID uuid.UUID,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT EXISTS (
				SELECT 1 FROM entitlements WHERE principal_id = ? AND course_id = ?
			  )`

	id, err := courseID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal course id")
	}

	var exists bool
	if err := querier.QueryRowContext(ctx, query, principalID, id).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check course grant")
	}
	return exists, nil
}

// marshalOptionalUUID converts a nullable UUID to its BINARY(16) representation.
func marshalOptionalUUID(id *uuid.UUID) ([]byte, error) {
	if id == nil {
		return nil, nil
	}
	return id.MarshalBinary()
}

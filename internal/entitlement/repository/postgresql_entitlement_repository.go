// Package repository provides persistence for entitlements.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/eduvault/eduvault/internal/database"
	entitlementDomain "github.com/eduvault/eduvault/internal/entitlement/domain"
	apperrors "github.com/eduvault/eduvault/internal/errors"
)

// PostgreSQLEntitlementRepository implements Entitlement persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLEntitlementRepository struct {
	db *sql.DB
}

// NewPostgreSQLEntitlementRepository creates a new PostgreSQL Entitlement repository.
func NewPostgreSQLEntitlementRepository(db *sql.DB) *PostgreSQLEntitlementRepository {
	return &PostgreSQLEntitlementRepository{db: db}
}

// Create inserts a new entitlement row.
func (p *PostgreSQLEntitlementRepository) Create(
	ctx context.Context,
	entitlement *entitlementDomain.Entitlement,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO entitlements (id, principal_id, resource_id, course_id, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		entitlement.ID,
		entitlement.PrincipalID,
		entitlement.ResourceID,
		entitlement.CourseID,
		entitlement.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create entitlement")
	}
	return nil
}

// HasResourceGrant reports whether the principal holds a direct grant for the resource.
func (p *PostgreSQLEntitlementRepository) HasResourceGrant(
	ctx context.Context,
	principalID string,
	resourceID uuid.UUID,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (
				SELECT 1 FROM entitlements WHERE principal_id = $1 AND resource_id = $2
			  )`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, principalID, resourceID).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check resource grant")
	}
	return exists, nil
}

// HasCourseGrant reports whether the principal is a member of the course.
func (p *PostgreSQLEntitlementRepository) HasCourseGrant(
	ctx context.Context,
	principalID string,
	courseID uuid.UUID,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (
				SELECT 1 FROM entitlements WHERE principal_id = $1 AND course_id = $2
			  )`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, principalID, courseID).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check course grant")
	}
	return exists, nil
}

// Package repository provides persistence for the resource catalog.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	catalogDomain "github.com/eduvault/eduvault/internal/catalog/domain"
	"github.com/eduvault/eduvault/internal/database"
	apperrors "github.com/eduvault/eduvault/internal/errors"
)

// PostgreSQLResourceRepository implements Resource persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLResourceRepository struct {
	db *sql.DB
}

// NewPostgreSQLResourceRepository creates a new PostgreSQL Resource repository.
func NewPostgreSQLResourceRepository(db *sql.DB) *PostgreSQLResourceRepository {
	return &PostgreSQLResourceRepository{db: db}
}

// Create inserts a new Resource into the PostgreSQL database.
func (p *PostgreSQLResourceRepository) Create(ctx context.Context, resource *catalogDomain.Resource) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO resources (id, url, resource_type, title, file_size_bytes, course_id, module_id, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		resource.ID,
		resource.URL,
		resource.Type,
		resource.Title,
		resource.FileSizeBytes,
		resource.CourseID,
		resource.ModuleID,
		resource.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create resource")
	}
	return nil
}

// Get retrieves a Resource by ID from the PostgreSQL database. Returns
// ErrResourceNotFound if the catalog has no entry for the id.
func (p *PostgreSQLResourceRepository) Get(
	ctx context.Context,
	resourceID uuid.UUID,
) (*catalogDomain.Resource, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, url, resource_type, title, file_size_bytes, course_id, module_id, created_at
			  FROM resources WHERE id = $1`

	var resource catalogDomain.Resource

	err := querier.QueryRowContext(ctx, query, resourceID).Scan(
		&resource.ID,
		&resource.URL,
		&resource.Type,
		&resource.Title,
		&resource.FileSizeBytes,
		&resource.CourseID,
		&resource.ModuleID,
		&resource.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalogDomain.ErrResourceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get resource")
	}

	return &resource, nil
}

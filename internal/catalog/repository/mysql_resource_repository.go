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

// MySQLResourceRepository implements Resource persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLResourceRepository struct {
	db *sql.DB
}

// NewMySQLResourceRepository creates a new MySQL Resource repository.
func NewMySQLResourceRepository(db *sql.DB) *MySQLResourceRepository {
	return &MySQLResourceRepository{db: db}
}

// Create inserts a new Resource into the MySQL database using BINARY(16) for UUIDs.
func (m *MySQLResourceRepository) Create(ctx context.Context, resource *catalogDomain.Resource) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO resources (id, url, resource_type, title, file_size_bytes, course_id, module_id, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := resource.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal resource id")
	}

	courseID, err := marshalOptionalUUID(resource.CourseID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal course id")
	}

	moduleID, err := marshalOptionalUUID(resource.ModuleID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal module id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		resource.URL,
		resource.Type,
		resource.Title,
		resource.FileSizeBytes,
		courseID,
		moduleID,
		resource.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create resource")
	}
	return nil
}

// Get retrieves a Resource by ID from the MySQL database. Returns
// ErrResourceNotFound if the catalog has no entry for the id.
func (m *MySQLResourceRepository) Get(
	ctx context.Context,
	resourceID uuid.UUID,
) (*catalogDomain.Resource, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, url, resource_type, title, file_size_bytes, course_id, module_id, created_at
			  FROM resources WHERE id = ?`

	id, err := resourceID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal resource id")
	}

	var resource catalogDomain.Resource
	var rawID, rawCourseID, rawModuleID []byte

	err = querier.QueryRowContext(ctx, query, id).Scan(
		&rawID,
		&resource.URL,
		&resource.Type,
		&resource.Title,
		&resource.FileSizeBytes,
		&rawCourseID,
		&rawModuleID,
		&resource.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalogDomain.ErrResourceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get resource")
	}

	if err := resource.ID.UnmarshalBinary(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal resource id")
	}
	if resource.CourseID, err = unmarshalOptionalUUID(rawCourseID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal course id")
	}
	if resource.ModuleID, err = unmarshalOptionalUUID(rawModuleID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal module id")
	}

	return &resource, nil
}

// marshalOptionalUUID converts a nullable UUID to its BINARY(16) representation.
func marshalOptionalUUID(id *uuid.UUID) ([]byte, error) {
	if id == nil {
		return nil, nil
	}
	return id.MarshalBinary()
}

// unmarshalOptionalUUID converts a nullable BINARY(16) column back to a UUID.
func unmarshalOptionalUUID(raw []byte) (*uuid.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	var id uuid.UUID
	if err := id.UnmarshalBinary(raw); err != nil {
		return nil, err
	}
	return &id, nil
}

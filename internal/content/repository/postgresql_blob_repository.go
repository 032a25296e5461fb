// Package repository provides persistence for encrypted content blobs.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	contentDomain "github.com/eduvault/eduvault/internal/content/domain"
	"github.com/eduvault/eduvault/internal/database"
	apperrors "github.com/eduvault/eduvault/internal/errors"
)

// PostgreSQLBlobRepository implements encrypted blob persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLBlobRepository struct {
	db *sql.DB
}

// NewPostgreSQLBlobRepository creates a new PostgreSQL blob repository.
func NewPostgreSQLBlobRepository(db *sql.DB) *PostgreSQLBlobRepository {
	return &PostgreSQLBlobRepository{db: db}
}

// Create inserts the blob for a resource. A concurrent insert for the same
// resource wins silently; callers must re-read to obtain the canonical bytes.
func (p *PostgreSQLBlobRepository) Create(
	ctx context.Context,
	resourceID uuid.UUID,
	blob contentDomain.EncryptedBlob,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO resource_blobs (resource_id, blob_data, created_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (resource_id) DO NOTHING`

	_, err := querier.ExecContext(ctx, query, resourceID, []byte(blob), time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(err, "failed to store encrypted blob")
	}
	return nil
}

// Get retrieves the blob for a resource. Returns ErrBlobNotFound if the
// resource has not been encrypted yet.
func (p *PostgreSQLBlobRepository) Get(
	ctx context.Context,
	resourceID uuid.UUID,
) (contentDomain.EncryptedBlob, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT blob_data FROM resource_blobs WHERE resource_id = $1`

	var blob []byte
	err := querier.QueryRowContext(ctx, query, resourceID).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, contentDomain.ErrBlobNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get encrypted blob")
	}

	return contentDomain.EncryptedBlob(blob), nil
}

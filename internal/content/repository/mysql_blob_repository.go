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

// MySQLBlobRepository implements encrypted blob persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLBlobRepository struct {
	db *sql.DB
}

// NewMySQLBlobRepository creates a new MySQL blob repository.
func NewMySQLBlobRepository(db *sql.DB) *MySQLBlobRepository {
	return &MySQLBlobRepository{db: db}
}

// Create inserts the blob for a resource. A concurrent insert for the same
// resource wins silently; callers must re-read to obtain the canonical bytes.
func (m *MySQLBlobRepository) Create(
	ctx context.Context,
	resourceID uuid.UUID,
	blob contentDomain.EncryptedBlob,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT IGNORE INTO resource_blobs (resource_id, blob_data, created_at)
			  VALUES (?, ?, ?)`

	id, err := resourceID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal resource id")
	}

	_, err = querier.ExecContext(ctx, query, id, []byte(blob), time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(err, "failed to store encrypted blob")
	}
	return nil
}

// Get retrieves the blob for a resource. Returns ErrBlobNotFound if the
// resource has not been encrypted yet.
func (m *MySQLBlobRepository) Get(
	ctx context.Context,
	resourceID uuid.UUID,
) (contentDomain.EncryptedBlob, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT blob_data FROM resource_blobs WHERE resource_id = ?`

	id, err := resourceID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal resource id")
	}

	var blob []byte
	err = querier.QueryRowContext(ctx, query, id).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, contentDomain.ErrBlobNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get encrypted blob")
	}

	return contentDomain.EncryptedBlob(blob), nil
}

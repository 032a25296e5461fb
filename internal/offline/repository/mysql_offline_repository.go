package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/eduvault/eduvault/internal/database"
	apperrors "github.com/eduvault/eduvault/internal/errors"
	offlineDomain "github.com/eduvault/eduvault/internal/offline/domain"
)

// MySQLOfflineRepository implements offline record persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLOfflineRepository struct {
	db *sql.DB
}

// NewMySQLOfflineRepository creates a new MySQL offline repository.
func NewMySQLOfflineRepository(db *sql.DB) *MySQLOfflineRepository {
	return &MySQLOfflineRepository{db: db}
}

// Upsert inserts the record, or refreshes the download timestamps when the
// principal re-downloads the resource. Re-download restarts the retention
// window.
func (m *MySQLOfflineRepository) Upsert(
	ctx context.Context,
	record *offlineDomain.OfflineRecord,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO offline_resources (id, principal_id, resource_id, downloaded_at, last_accessed_at)
			  VALUES (?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE downloaded_at = VALUES(downloaded_at), last_accessed_at = VALUES(last_accessed_at)`

	id, err := record.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal record id")
	}

	resourceID, err := record.ResourceID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal resource id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		record.PrincipalID,
		resourceID,
		record.DownloadedAt,
		record.LastAccessedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert offline record")
	}
	return nil
}

// Get retrieves the record for a (principal, resource) pair.
func (m *MySQLOfflineRepository) Get(
	ctx context.Context,
	principalID string,
	resourceID uuid.UUID,
) (*offlineDomain.OfflineRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, principal_id, resource_id, downloaded_at, last_accessed_at
			  FROM offline_resources WHERE principal_id = ? AND resource_id = ?`

	rid, err := resourceID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal resource id")
	}

	var record offlineDomain.OfflineRecord
	var id, storedResourceID []byte

	err = querier.QueryRowContext(ctx, query, principalID, rid).Scan(
		&id,
		&record.PrincipalID,
		&storedResourceID,
		&record.DownloadedAt,
		&record.LastAccessedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, offlineDomain.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get offline record")
	}

	if err := record.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal record id")
	}
	if err := record.ResourceID.UnmarshalBinary(storedResourceID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal resource id")
	}

	return &record, nil
}

// ListByPrincipal returns all records for a principal, newest download first.
func (m *MySQLOfflineRepository) ListByPrincipal(
	ctx context.Context,
	principalID string,
) ([]*offlineDomain.OfflineRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, principal_id, resource_id, downloaded_at, last_accessed_at
			  FROM offline_resources WHERE principal_id = ?
			  ORDER BY downloaded_at DESC`

	rows, err := querier.QueryContext(ctx, query, principalID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list offline records")
	}
	defer rows.Close()

	var records []*offlineDomain.OfflineRecord
	for rows.Next() {
		var record offlineDomain.OfflineRecord
		var id, resourceID []byte
		if err := rows.Scan(
			&id,
			&record.PrincipalID,
			&resourceID,
			&record.DownloadedAt,
			&record.LastAccessedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan offline record")
		}
		if err := record.ID.UnmarshalBinary(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal record id")
		}
		if err := record.ResourceID.UnmarshalBinary(resourceID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal resource id")
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate offline records")
	}

	return records, nil
}

// Touch updates the last access timestamp. Returns ErrRecordNotFound if no
// record exists for the pair.
func (m *MySQLOfflineRepository) Touch(
	ctx context.Context,
	principalID string,
	resourceID uuid.UUID,
	accessedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE offline_resources SET last_accessed_at = ?
			  WHERE principal_id = ? AND resource_id = ?`

	id, err := resourceID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal resource id")
	}

	result, err := querier.ExecContext(ctx, query, accessedAt, principalID, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to touch offline record")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read touch result")
	}
	if rows == 0 {
		return offlineDomain.ErrRecordNotFound
	}
	return nil
}

// Delete removes the record. Returns ErrRecordNotFound if no record exists.
func (m *MySQLOfflineRepository) Delete(
	ctx context.Context,
	principalID string,
	resourceID uuid.UUID,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM offline_resources WHERE principal_id = ? AND resource_id = ?`

	id, err := resourceID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal resource id")
	}

	result, err := querier.ExecContext(ctx, query, principalID, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete offline record")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read delete result")
	}
	if rows == 0 {
		return offlineDomain.ErrRecordNotFound
	}
	return nil
}

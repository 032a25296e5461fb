// Package repository provides persistence for offline download records.
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

// PostgreSQLOfflineRepository implements offline record persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLOfflineRepository struct {
	db *sql.DB
}

// NewPostgreSQLOfflineRepository creates a new PostgreSQL offline repository.
func NewPostgreSQLOfflineRepository(db *sql.DB) *PostgreSQLOfflineRepository {
	return &PostgreSQLOfflineRepository{db: db}
}

// Upsert inserts the record, or refreshes the download timestamps when the
// principal re-downloads the resource. Re-download restarts the retention
// window.
func (p *PostgreSQLOfflineRepository) Upsert(
	ctx context.Context,
	record *offlineDomain.OfflineRecord,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO offline_resources (id, principal_id, resource_id, downloaded_at, last_accessed_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (principal_id, resource_id)
			  DO UPDATE SET downloaded_at = EXCLUDED.downloaded_at, last_accessed_at = EXCLUDED.last_accessed_at`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.ID,
		record.PrincipalID,
		record.ResourceID,
		record.DownloadedAt,
		record.LastAccessedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert offline record")
	}
	return nil
}

// Get retrieves the record for a (principal, resource) pair.
func (p *PostgreSQLOfflineRepository) Get(
	ctx context.Context,
	principalID string,
	resourceID uuid.UUID,
) (*offlineDomain.OfflineRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, principal_id, resource_id, downloaded_at, last_accessed_at
			  FROM offline_resources WHERE principal_id = $1 AND resource_id = $2`

	var record offlineDomain.OfflineRecord

	err := querier.QueryRowContext(ctx, query, principalID, resourceID).Scan(
		&record.ID,
		&record.PrincipalID,
		&record.ResourceID,
		&record.DownloadedAt,
		&record.LastAccessedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, offlineDomain.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get offline record")
	}

	return &record, nil
}

// ListByPrincipal returns all records for a principal, newest download first.
func (p *PostgreSQLOfflineRepository) ListByPrincipal(
	ctx context.Context,
	principalID string,
) ([]*offlineDomain.OfflineRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, principal_id, resource_id, downloaded_at, last_accessed_at
			  FROM offline_resources WHERE principal_id = $1
			  ORDER BY downloaded_at DESC`

	rows, err := querier.QueryContext(ctx, query, principalID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list offline records")
	}
	defer rows.Close()

	var records []*offlineDomain.OfflineRecord
	for rows.Next() {
		var record offlineDomain.OfflineRecord
		if err := rows.Scan(
			&record.ID,
			&record.PrincipalID,
			&record.ResourceID,
			&record.DownloadedAt,
			&record.LastAccessedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan offline record")
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
func (p *PostgreSQLOfflineRepository) Touch(
	ctx context.Context,
	principalID string,
	resourceID uuid.UUID,
	accessedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE offline_resources SET last_accessed_at = $1
			  WHERE principal_id = $2 AND resource_id = $3`

	result, err := querier.ExecContext(ctx, query, accessedAt, principalID, resourceID)
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
func (p *PostgreSQLOfflineRepository) Delete(
	ctx context.Context,
	principalID string,
	resourceID uuid.UUID,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM offline_resources WHERE principal_id = $1 AND resource_id = $2`

	result, err := querier.ExecContext(ctx, query, principalID, resourceID)
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

// Package repository provides persistence for access tokens.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/eduvault/eduvault/internal/database"
	apperrors "github.com/eduvault/eduvault/internal/errors"
	tokenDomain "github.com/eduvault/eduvault/internal/token/domain"
)

// PostgreSQLTokenRepository implements access token persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// NewPostgreSQLTokenRepository creates a new PostgreSQL token repository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}

// Create inserts a new access token.
func (p *PostgreSQLTokenRepository) Create(ctx context.Context, token *tokenDomain.AccessToken) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO access_tokens (id, token_hash, resource_id, principal_id, purpose, issued_at, expires_at, redeemed_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.TokenHash,
		token.ResourceID,
		token.PrincipalID,
		token.Purpose,
		token.IssuedAt,
		token.ExpiresAt,
		token.RedeemedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create access token")
	}
	return nil
}

// GetByTokenHash retrieves an access token by its hash. Returns
// ErrTokenNotFound if no token matches.
func (p *PostgreSQLTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*tokenDomain.AccessToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, token_hash, resource_id, principal_id, purpose, issued_at, expires_at, redeemed_at
			  FROM access_tokens WHERE token_hash = $1`

	var token tokenDomain.AccessToken

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.TokenHash,
		&token.ResourceID,
		&token.PrincipalID,
		&token.Purpose,
		&token.IssuedAt,
		&token.ExpiresAt,
		&token.RedeemedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tokenDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get access token")
	}

	return &token, nil
}

// Redeem marks the token as redeemed if and only if it has not been redeemed
// yet. The WHERE clause makes the claim atomic: exactly one of any number of
// concurrent redeemers observes claimed == true.
func (p *PostgreSQLTokenRepository) Redeem(
	ctx context.Context,
	tokenID uuid.UUID,
	redeemedAt time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE access_tokens SET redeemed_at = $1
			  WHERE id = $2 AND redeemed_at IS NULL`

	result, err := querier.ExecContext(ctx, query, redeemedAt, tokenID)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to redeem access token")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read redeem result")
	}
	return rows == 1, nil
}

// DeleteExpired removes tokens whose expiry is older than the cutoff. Used by
// periodic cleanup; redemption correctness never depends on it.
func (p *PostgreSQLTokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM access_tokens WHERE expires_at < $1`

	result, err := querier.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired tokens")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read delete result")
	}
	return rows, nil
}

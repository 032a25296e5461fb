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

// MySQLTokenRepository implements access token persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLTokenRepository struct {
	db *sql.DB
}

// NewMySQLTokenRepository creates a new MySQL token repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}

// Create inserts a new access token using BINARY(16) for UUIDs.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *tokenDomain.AccessToken) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO access_tokens (id, token_hash, resource_id, principal_id, purpose, issued_at, expires_at, redeemed_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}

	resourceID, err := token.ResourceID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal resource id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		token.TokenHash,
		resourceID,
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
func (m *MySQLTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*tokenDomain.AccessToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, token_hash, resource_id, principal_id, purpose, issued_at, expires_at, redeemed_at
			  FROM access_tokens WHERE token_hash = ?`

	var token tokenDomain.AccessToken
	var id, resourceID []byte

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&id,
		&token.TokenHash,
		&resourceID,
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

	if err := token.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal token id")
	}
	if err := token.ResourceID.UnmarshalBinary(resourceID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal resource id")
	}

	return &token, nil
}

// Redeem marks the token as redeemed if and only if it has not been redeemed
// yet. The WHERE clause makes the claim atomic: exactly one of any number of
// concurrent redeemers observes claimed == true.
func (m *MySQLTokenRepository) Redeem(
	ctx context.Context,
	tokenID uuid.UUID,
	redeemedAt time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE access_tokens SET redeemed_at = ?
			  WHERE id = ? AND redeemed_at IS NULL`

	id, err := tokenID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal token id")
	}

	result, err := querier.ExecContext(ctx, query, redeemedAt, id)
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
func (m *MySQLTokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM access_tokens WHERE expires_at < ?`

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

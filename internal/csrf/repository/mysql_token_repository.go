package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	csrfDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/csrf/domain"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/database"
	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
)

// MySQLTokenRepository implements Token persistence for MySQL.
type MySQLTokenRepository struct {
	db *sql.DB
}

// Create persists a freshly issued token.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *csrfDomain.Token) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO csrf_tokens (token_hash, session_id, created_at, expires_at, used)
			  VALUES (?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.TokenHash,
		token.SessionID,
		token.CreatedAt,
		token.ExpiresAt,
		token.Used,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create csrf token")
	}

	return nil
}

// Consume atomically marks a token used. The condition and the flip are one
// statement so two concurrent validations of the same token cannot both
// succeed.
func (m *MySQLTokenRepository) Consume(
	ctx context.Context,
	tokenHash, sessionID string,
	now time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE csrf_tokens SET used = TRUE
			  WHERE token_hash = ? AND session_id = ? AND used = FALSE AND expires_at > ?`

	result, err := querier.ExecContext(ctx, query, tokenHash, sessionID, now)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to consume csrf token")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read consume result")
	}

	return affected == 1, nil
}

// Get retrieves a token by its hash and session binding.
func (m *MySQLTokenRepository) Get(
	ctx context.Context,
	tokenHash, sessionID string,
) (*csrfDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT token_hash, session_id, created_at, expires_at, used
			  FROM csrf_tokens WHERE token_hash = ? AND session_id = ?`

	var token csrfDomain.Token
	err := querier.QueryRowContext(ctx, query, tokenHash, sessionID).Scan(
		&token.TokenHash,
		&token.SessionID,
		&token.CreatedAt,
		&token.ExpiresAt,
		&token.Used,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "csrf token not found")
		}
		return nil, apperrors.Wrap(err, "failed to get csrf token")
	}

	return &token, nil
}

// GetLatestActive retrieves the most recent unused, unexpired token for a session.
func (m *MySQLTokenRepository) GetLatestActive(
	ctx context.Context,
	sessionID string,
	now time.Time,
) (*csrfDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT token_hash, session_id, created_at, expires_at, used
			  FROM csrf_tokens
			  WHERE session_id = ? AND used = FALSE AND expires_at > ?
			  ORDER BY created_at DESC
			  LIMIT 1`

	var token csrfDomain.Token
	err := querier.QueryRowContext(ctx, query, sessionID, now).Scan(
		&token.TokenHash,
		&token.SessionID,
		&token.CreatedAt,
		&token.ExpiresAt,
		&token.Used,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "no active csrf token")
		}
		return nil, apperrors.Wrap(err, "failed to get active csrf token")
	}

	return &token, nil
}

// Delete removes a single token row.
func (m *MySQLTokenRepository) Delete(ctx context.Context, tokenHash string) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM csrf_tokens WHERE token_hash = ?`

	if _, err := querier.ExecContext(ctx, query, tokenHash); err != nil {
		return apperrors.Wrap(err, "failed to delete csrf token")
	}

	return nil
}

// CountExpiredOrUsed counts tokens past expiry or already consumed.
func (m *MySQLTokenRepository) CountExpiredOrUsed(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM csrf_tokens WHERE expires_at < ? OR used = TRUE`

	var count int64
	if err := querier.QueryRowContext(ctx, query, now).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count sweepable csrf tokens")
	}

	return count, nil
}

// DeleteExpiredOrUsed removes every token past expiry or already consumed.
func (m *MySQLTokenRepository) DeleteExpiredOrUsed(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM csrf_tokens WHERE expires_at < ? OR used = TRUE`

	result, err := querier.ExecContext(ctx, query, now)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to sweep csrf tokens")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read sweep result")
	}

	return affected, nil
}

// NewMySQLTokenRepository creates a new MySQL token repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}

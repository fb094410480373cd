// Package repository implements rate limit window persistence for PostgreSQL
// and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/database"
	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
)

// PostgreSQLWindowRepository implements Window persistence for PostgreSQL.
type PostgreSQLWindowRepository struct {
	db *sql.DB
}

// Count returns the admissions recorded for a caller and endpoint in the
// given window. Zero when no row exists yet.
func (p *PostgreSQLWindowRepository) Count(
	ctx context.Context,
	endpoint, callerID string,
	windowStart time.Time,
) (int, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT count FROM rate_windows
			  WHERE endpoint = $1 AND caller_id = $2 AND window_start = $3`

	var count int
	err := querier.QueryRowContext(ctx, query, endpoint, callerID, windowStart).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, apperrors.Wrap(err, "failed to count rate window")
	}

	return count, nil
}

// Increment records one admission, creating the window row on first use.
// A single atomic upsert so an aborted request never leaves a partial write.
func (p *PostgreSQLWindowRepository) Increment(
	ctx context.Context,
	endpoint, callerID string,
	windowStart time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO rate_windows (endpoint, caller_id, window_start, count)
			  VALUES ($1, $2, $3, 1)
			  ON CONFLICT (endpoint, caller_id, window_start)
			  DO UPDATE SET count = rate_windows.count + 1`

	if _, err := querier.ExecContext(ctx, query, endpoint, callerID, windowStart); err != nil {
		return apperrors.Wrap(err, "failed to increment rate window")
	}

	return nil
}

// CountBefore counts windows that started before the cutoff.
func (p *PostgreSQLWindowRepository) CountBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM rate_windows WHERE window_start < $1`

	var count int64
	if err := querier.QueryRowContext(ctx, query, cutoff).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count rate windows")
	}

	return count, nil
}

// DeleteBefore removes windows that started before the cutoff.
func (p *PostgreSQLWindowRepository) DeleteBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM rate_windows WHERE window_start < $1`

	result, err := querier.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete rate windows")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read delete result")
	}

	return affected, nil
}

// NewPostgreSQLWindowRepository creates a new PostgreSQL window repository.
func NewPostgreSQLWindowRepository(db *sql.DB) *PostgreSQLWindowRepository {
	return &PostgreSQLWindowRepository{db: db}
}

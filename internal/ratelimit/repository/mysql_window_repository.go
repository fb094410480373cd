package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/database"
	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
)

// MySQLWindowRepository implements Window persistence for MySQL.
type MySQLWindowRepository struct {
	db *sql.DB
}

// Count returns the admissions recorded for a caller and endpoint in the
// given window. Zero when no row exists yet.
func (m *MySQLWindowRepository) Count(
	ctx context.Context,
	endpoint, callerID string,
	windowStart time.Time,
) (int, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT count FROM rate_windows
			  WHERE endpoint = ? AND caller_id = ? AND window_start = ?`

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
func (m *MySQLWindowRepository) Increment(
	ctx context.Context,
	endpoint, callerID string,
	windowStart time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO rate_windows (endpoint, caller_id, window_start, count)
			  VALUES (?, ?, ?, 1)
			  ON DUPLICATE KEY UPDATE count = count + 1`

	if _, err := querier.ExecContext(ctx, query, endpoint, callerID, windowStart); err != nil {
		return apperrors.Wrap(err, "failed to increment rate window")
	}

	return nil
}

// CountBefore counts windows that started before the cutoff.
func (m *MySQLWindowRepository) CountBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM rate_windows WHERE window_start < ?`

	var count int64
	if err := querier.QueryRowContext(ctx, query, cutoff).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count rate windows")
	}

	return count, nil
}

// DeleteBefore removes windows that started before the cutoff.
func (m *MySQLWindowRepository) DeleteBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM rate_windows WHERE window_start < ?`

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

// NewMySQLWindowRepository creates a new MySQL window repository.
func NewMySQLWindowRepository(db *sql.DB) *MySQLWindowRepository {
	return &MySQLWindowRepository{db: db}
}

package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgreSQLWindowRepository_Count(t *testing.T) {
	ctx := context.Background()
	windowStart := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

	t.Run("ExistingWindow", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT count FROM rate_windows")).
			WithArgs("/api/auth", "203.0.113.7", windowStart).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		repo := NewPostgreSQLWindowRepository(db)
		count, err := repo.Count(ctx, "/api/auth", "203.0.113.7", windowStart)
		require.NoError(t, err)
		assert.Equal(t, 7, count)
	})

	t.Run("MissingWindowIsZero", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT count FROM rate_windows")).
			WithArgs("/api/auth", "203.0.113.7", windowStart).
			WillReturnRows(sqlmock.NewRows([]string{"count"}))

		repo := NewPostgreSQLWindowRepository(db)
		count, err := repo.Count(ctx, "/api/auth", "203.0.113.7", windowStart)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestPostgreSQLWindowRepository_Increment(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	windowStart := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO rate_windows")).
		WithArgs("/api/auth", "203.0.113.7", windowStart).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgreSQLWindowRepository(db)
	err = repo.Increment(context.Background(), "/api/auth", "203.0.113.7", windowStart)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLWindowRepository_DeleteBefore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM rate_windows WHERE window_start < $1")).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 12))

	repo := NewPostgreSQLWindowRepository(db)
	removed, err := repo.DeleteBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(12), removed)
}

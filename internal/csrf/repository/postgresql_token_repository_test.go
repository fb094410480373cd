package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	csrfDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/csrf/domain"
	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
)

func TestPostgreSQLTokenRepository_Consume(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("MatchedRowConsumed", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(regexp.QuoteMeta("UPDATE csrf_tokens SET used = TRUE")).
			WithArgs("tok", "session-1", now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPostgreSQLTokenRepository(db)
		consumed, err := repo.Consume(ctx, "tok", "session-1", now)
		require.NoError(t, err)
		assert.True(t, consumed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoMatchNotConsumed", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(regexp.QuoteMeta("UPDATE csrf_tokens SET used = TRUE")).
			WithArgs("tok", "session-1", now).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewPostgreSQLTokenRepository(db)
		consumed, err := repo.Consume(ctx, "tok", "session-1", now)
		require.NoError(t, err)
		assert.False(t, consumed)
	})
}

func TestPostgreSQLTokenRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("Create", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO csrf_tokens")).
			WithArgs("tok", "session-1", now, now.Add(time.Hour), false).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPostgreSQLTokenRepository(db)
		err = repo.Create(ctx, &csrfDomain.Token{
			TokenHash: "tok",
			SessionID: "session-1",
			CreatedAt: now,
			ExpiresAt: now.Add(time.Hour),
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT token_hash, session_id, created_at, expires_at, used")).
			WithArgs("missing", "session-1").
			WillReturnRows(sqlmock.NewRows(
				[]string{"token_hash", "session_id", "created_at", "expires_at", "used"}))

		repo := NewPostgreSQLTokenRepository(db)
		_, err = repo.Get(ctx, "missing", "session-1")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestPostgreSQLTokenRepository_DeleteExpiredOrUsed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM csrf_tokens WHERE expires_at < $1 OR used = TRUE")).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 5))

	repo := NewPostgreSQLTokenRepository(db)
	removed, err := repo.DeleteExpiredOrUsed(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(5), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

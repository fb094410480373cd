package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	csrfDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/csrf/domain"
	csrfService "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/csrf/service"
	csrfMocks "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/csrf/usecase/mocks"
	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
)

func newTestUseCase(repo TokenRepository, now time.Time) *tokenUseCase {
	uc := NewTokenUseCase(csrfService.NewTokenGenerator(), repo, time.Hour).(*tokenUseCase)
	uc.nowFn = func() time.Time { return now }
	return uc
}

func TestTokenUseCase_Issue(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("Success_PersistsWithExpiry", func(t *testing.T) {
		repo := &csrfMocks.MockTokenRepository{}
		repo.On("Create", ctx, mock.MatchedBy(func(token *csrfDomain.Token) bool {
			return token.SessionID == "session-1" &&
				!token.Used &&
				token.ExpiresAt.Equal(now.Add(time.Hour)) &&
				len(token.TokenHash) == 64
		})).Return(nil)

		uc := newTestUseCase(repo, now)
		token, err := uc.Issue(ctx, "session-1")
		require.NoError(t, err)
		assert.Len(t, token, 64)
		repo.AssertExpectations(t)
	})

	t.Run("TokensAreUnique", func(t *testing.T) {
		repo := &csrfMocks.MockTokenRepository{}
		repo.On("Create", ctx, mock.Anything).Return(nil)

		uc := newTestUseCase(repo, now)
		first, err := uc.Issue(ctx, "session-1")
		require.NoError(t, err)
		second, err := uc.Issue(ctx, "session-1")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("StorageFailure_ReturnsFallbackToken", func(t *testing.T) {
		repo := &csrfMocks.MockTokenRepository{}
		repo.On("Create", ctx, mock.Anything).Return(apperrors.New("db down"))

		uc := newTestUseCase(repo, now)
		token, err := uc.Issue(ctx, "session-1")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})
}

func TestTokenUseCase_Validate(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("ConsumedExactlyOnce", func(t *testing.T) {
		repo := &csrfMocks.MockTokenRepository{}
		repo.On("Consume", ctx, "tok", "session-1", now).Return(true, nil).Once()
		repo.On("Consume", ctx, "tok", "session-1", now).Return(false, nil).Once()
		repo.On("Get", ctx, "tok", "session-1").Return(&csrfDomain.Token{
			TokenHash: "tok",
			SessionID: "session-1",
			ExpiresAt: now.Add(time.Hour),
			Used:      true,
		}, nil)

		uc := newTestUseCase(repo, now)
		assert.True(t, uc.Validate(ctx, "tok", "session-1"))
		assert.False(t, uc.Validate(ctx, "tok", "session-1"))
		repo.AssertExpectations(t)
	})

	t.Run("UnknownTokenDenied", func(t *testing.T) {
		repo := &csrfMocks.MockTokenRepository{}
		repo.On("Consume", ctx, "nope", "session-1", now).Return(false, nil)
		repo.On("Get", ctx, "nope", "session-1").
			Return(nil, apperrors.Wrap(apperrors.ErrNotFound, "csrf token not found"))

		uc := newTestUseCase(repo, now)
		assert.False(t, uc.Validate(ctx, "nope", "session-1"))
	})

	t.Run("ExpiredTokenDeniedAndDeleted", func(t *testing.T) {
		repo := &csrfMocks.MockTokenRepository{}
		repo.On("Consume", ctx, "tok", "session-1", now).Return(false, nil)
		repo.On("Get", ctx, "tok", "session-1").Return(&csrfDomain.Token{
			TokenHash: "tok",
			SessionID: "session-1",
			ExpiresAt: now.Add(-time.Minute),
			Used:      false,
		}, nil)
		repo.On("Delete", ctx, "tok").Return(nil)

		uc := newTestUseCase(repo, now)
		assert.False(t, uc.Validate(ctx, "tok", "session-1"))
		repo.AssertExpectations(t)
	})

	t.Run("StorageErrorFailsClosed", func(t *testing.T) {
		repo := &csrfMocks.MockTokenRepository{}
		repo.On("Consume", ctx, "tok", "session-1", now).Return(false, apperrors.New("db down"))

		uc := newTestUseCase(repo, now)
		assert.False(t, uc.Validate(ctx, "tok", "session-1"))
		repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EmptyInputsDeniedWithoutStorage", func(t *testing.T) {
		repo := &csrfMocks.MockTokenRepository{}

		uc := newTestUseCase(repo, now)
		assert.False(t, uc.Validate(ctx, "", "session-1"))
		assert.False(t, uc.Validate(ctx, "tok", ""))
		repo.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTokenUseCase_GetOrIssue(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("ReusesActiveToken", func(t *testing.T) {
		repo := &csrfMocks.MockTokenRepository{}
		repo.On("GetLatestActive", ctx, "session-1", now).Return(&csrfDomain.Token{
			TokenHash: "existing",
			SessionID: "session-1",
			ExpiresAt: now.Add(30 * time.Minute),
		}, nil)

		uc := newTestUseCase(repo, now)
		token, err := uc.GetOrIssue(ctx, "session-1")
		require.NoError(t, err)
		assert.Equal(t, "existing", token)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("IssuesWhenNoneActive", func(t *testing.T) {
		repo := &csrfMocks.MockTokenRepository{}
		repo.On("GetLatestActive", ctx, "session-1", now).
			Return(nil, apperrors.Wrap(apperrors.ErrNotFound, "no active csrf token"))
		repo.On("Create", ctx, mock.Anything).Return(nil)

		uc := newTestUseCase(repo, now)
		token, err := uc.GetOrIssue(ctx, "session-1")
		require.NoError(t, err)
		assert.Len(t, token, 64)
		repo.AssertExpectations(t)
	})
}

func TestTokenUseCase_Sweep(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("DeletesExpiredAndUsed", func(t *testing.T) {
		repo := &csrfMocks.MockTokenRepository{}
		repo.On("DeleteExpiredOrUsed", ctx, now).Return(int64(3), nil)

		uc := newTestUseCase(repo, now)
		removed, err := uc.Sweep(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, int64(3), removed)
	})

	t.Run("DryRunOnlyCounts", func(t *testing.T) {
		repo := &csrfMocks.MockTokenRepository{}
		repo.On("CountExpiredOrUsed", ctx, now).Return(int64(3), nil)

		uc := newTestUseCase(repo, now)
		removed, err := uc.Sweep(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, int64(3), removed)
		repo.AssertNotCalled(t, "DeleteExpiredOrUsed", mock.Anything, mock.Anything)
	})
}

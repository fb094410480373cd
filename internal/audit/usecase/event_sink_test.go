package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/audit/domain"
	auditMocks "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/audit/usecase/mocks"
	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
)

func TestEventSink_RecordAccess(t *testing.T) {
	ctx := context.Background()

	t.Run("FillsIdentityAndTimestamp", func(t *testing.T) {
		repo := &auditMocks.MockAuditRepository{}
		repo.On("CreateAccess", ctx, mock.MatchedBy(func(entry *auditDomain.AccessEntry) bool {
			return entry.ID != uuid.Nil && !entry.CreatedAt.IsZero()
		})).Return(nil)

		sink := NewEventSink(repo, 0)
		sink.RecordAccess(ctx, &auditDomain.AccessEntry{
			Endpoint:       "/api/documents",
			Action:         "view",
			ResolvedIP:     "203.0.113.7",
			Classification: "cloudflare_cdn",
			SessionID:      "session-1",
		})
		repo.AssertExpectations(t)
	})

	t.Run("WriteFailureSwallowed", func(t *testing.T) {
		repo := &auditMocks.MockAuditRepository{}
		repo.On("CreateAccess", ctx, mock.Anything).Return(apperrors.New("db down"))

		sink := NewEventSink(repo, 0)
		assert.NotPanics(t, func() {
			sink.RecordAccess(ctx, &auditDomain.AccessEntry{Endpoint: "/api/documents"})
		})
	})
}

func TestEventSink_RecordViolation(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := &auditMocks.MockAuditRepository{}
		repo.On("CreateViolation", ctx, mock.MatchedBy(func(v *auditDomain.Violation) bool {
			return v.Type == auditDomain.ViolationInvalidReferrer &&
				v.IP == "203.0.113.7" &&
				v.ID != uuid.Nil
		})).Return(nil)

		sink := NewEventSink(repo, 0)
		sink.RecordViolation(ctx, auditDomain.ViolationInvalidReferrer, "203.0.113.7",
			map[string]any{"referrer": "https://evil.com/"})
		repo.AssertExpectations(t)
	})

	t.Run("WriteFailureSwallowed", func(t *testing.T) {
		repo := &auditMocks.MockAuditRepository{}
		repo.On("CreateViolation", ctx, mock.Anything).Return(apperrors.New("db down"))

		sink := NewEventSink(repo, 0)
		assert.NotPanics(t, func() {
			sink.RecordViolation(ctx, auditDomain.ViolationRateLimited, "203.0.113.7", nil)
		})
	})
}

func TestEventSink_Cleanup(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	cutoffMatcher := mock.MatchedBy(func(cutoff time.Time) bool {
		expected := now.Add(-30 * 24 * time.Hour)
		return cutoff.Sub(expected).Abs() < time.Minute
	})

	t.Run("DeletesExpiredRows", func(t *testing.T) {
		repo := &auditMocks.MockAuditRepository{}
		repo.On("DeleteBefore", ctx, cutoffMatcher).Return(int64(9), nil)

		sink := NewEventSink(repo, 30*24*time.Hour)
		removed, err := sink.Cleanup(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, int64(9), removed)
	})

	t.Run("DryRunOnlyCounts", func(t *testing.T) {
		repo := &auditMocks.MockAuditRepository{}
		repo.On("CountBefore", ctx, cutoffMatcher).Return(int64(9), nil)

		sink := NewEventSink(repo, 30*24*time.Hour)
		removed, err := sink.Cleanup(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, int64(9), removed)
		repo.AssertNotCalled(t, "DeleteBefore", mock.Anything, mock.Anything)
	})
}

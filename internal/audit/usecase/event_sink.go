package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/audit/domain"
)

// eventSink implements the EventSink interface.
type eventSink struct {
	repo      AuditRepository
	retention time.Duration
	nowFn     func() time.Time
}

// RecordAccess appends an access log row, swallowing failures.
func (e *eventSink) RecordAccess(ctx context.Context, entry *auditDomain.AccessEntry) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.Must(uuid.NewV7())
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = e.nowFn()
	}

	if err := e.repo.CreateAccess(ctx, entry); err != nil {
		slog.Debug("access log write failed", "endpoint", entry.Endpoint, "error", err)
	}
}

// RecordViolation appends a violation row, swallowing failures.
func (e *eventSink) RecordViolation(
	ctx context.Context,
	violationType, ip string,
	details map[string]any,
) {
	violation := &auditDomain.Violation{
		ID:        uuid.Must(uuid.NewV7()),
		Type:      violationType,
		IP:        ip,
		Details:   details,
		CreatedAt: e.nowFn(),
	}

	if err := e.repo.CreateViolation(ctx, violation); err != nil {
		slog.Debug("violation write failed", "type", violationType, "error", err)
	}
}

// ListAccess retrieves access log rows, newest first.
func (e *eventSink) ListAccess(
	ctx context.Context,
	limit int,
) ([]*auditDomain.AccessEntry, error) {
	return e.repo.ListAccess(ctx, limit)
}

// ListViolations retrieves violation rows, newest first.
func (e *eventSink) ListViolations(
	ctx context.Context,
	limit int,
) ([]*auditDomain.Violation, error) {
	return e.repo.ListViolations(ctx, limit)
}

// Cleanup removes events older than the retention period. In dry-run mode it
// only counts what would be removed.
func (e *eventSink) Cleanup(ctx context.Context, dryRun bool) (int64, error) {
	cutoff := e.nowFn().Add(-e.retention)
	if dryRun {
		return e.repo.CountBefore(ctx, cutoff)
	}
	return e.repo.DeleteBefore(ctx, cutoff)
}

// NewEventSink creates a new event sink. A non-positive retention falls back
// to the default.
func NewEventSink(repo AuditRepository, retention time.Duration) EventSink {
	if retention <= 0 {
		retention = auditDomain.DefaultRetention
	}
	return &eventSink{
		repo:      repo,
		retention: retention,
		nowFn:     func() time.Time { return time.Now().UTC() },
	}
}

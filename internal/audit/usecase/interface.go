// Package usecase implements the best-effort security event sink.
package usecase

import (
	"context"
	"time"

	auditDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/audit/domain"
)

// AuditRepository defines the interface for audit persistence operations.
type AuditRepository interface {
	CreateAccess(ctx context.Context, entry *auditDomain.AccessEntry) error
	CreateViolation(ctx context.Context, violation *auditDomain.Violation) error
	ListAccess(ctx context.Context, limit int) ([]*auditDomain.AccessEntry, error)
	ListViolations(ctx context.Context, limit int) ([]*auditDomain.Violation, error)
	CountBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// EventSink defines the interface for recording and reading security events.
//
// The record methods are best effort: a failed write logs at debug level and
// returns nothing, because audit logging must never break the request path.
type EventSink interface {
	RecordAccess(ctx context.Context, entry *auditDomain.AccessEntry)
	RecordViolation(ctx context.Context, violationType, ip string, details map[string]any)
	ListAccess(ctx context.Context, limit int) ([]*auditDomain.AccessEntry, error)
	ListViolations(ctx context.Context, limit int) ([]*auditDomain.Violation, error)
	// Cleanup removes events older than the retention period. In dry-run
	// mode it only counts what would be removed.
	Cleanup(ctx context.Context, dryRun bool) (int64, error)
}

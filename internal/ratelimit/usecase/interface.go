// Package usecase implements fixed-window rate limiting over the persisted
// window table.
package usecase

import (
	"context"
	"time"
)

// WindowRepository defines the interface for window persistence operations.
type WindowRepository interface {
	Count(ctx context.Context, endpoint, callerID string, windowStart time.Time) (int, error)
	Increment(ctx context.Context, endpoint, callerID string, windowStart time.Time) error
	CountBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RateLimitUseCase defines the interface for admission decisions.
type RateLimitUseCase interface {
	// Admit decides whether a caller may proceed against an endpoint in
	// the current window. Denials are not recorded; admissions are.
	Admit(ctx context.Context, endpoint, callerID string) bool
	// Cleanup removes windows older than the retention period. Admit
	// already runs this amortized; the explicit form serves the
	// maintenance job. In dry-run mode it only counts.
	Cleanup(ctx context.Context, dryRun bool) (int64, error)
}

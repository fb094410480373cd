package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	ratelimitDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/ratelimit/domain"
)

// cleanupInterval bounds how often Admit attempts retention cleanup. The
// work is amortized over the request stream rather than a dedicated job.
const cleanupInterval = time.Minute

// Options configures the rate limiter.
type Options struct {
	// Window is the fixed window width. Windows are wall-clock aligned.
	Window time.Duration
	// Ceiling is the admissions allowed per window.
	Ceiling int
	// Retention bounds how long spent windows are kept.
	Retention time.Duration
	// FailOpen admits requests when the store is unreachable. Favors
	// availability over strict enforcement.
	FailOpen bool
}

// rateLimitUseCase implements the RateLimitUseCase interface.
type rateLimitUseCase struct {
	repo  WindowRepository
	opts  Options
	nowFn func() time.Time

	mu          sync.Mutex
	lastCleanup time.Time
}

// Admit decides whether a caller may proceed. Counting tolerates benign
// races: two concurrent requests both reading a count just under the ceiling
// may both be admitted.
func (r *rateLimitUseCase) Admit(ctx context.Context, endpoint, callerID string) bool {
	now := r.nowFn()
	windowStart := ratelimitDomain.WindowStart(now, r.opts.Window)

	count, err := r.repo.Count(ctx, endpoint, callerID, windowStart)
	if err != nil {
		return r.storageFailure("count", err)
	}
	if count >= r.opts.Ceiling {
		return false
	}

	if err := r.repo.Increment(ctx, endpoint, callerID, windowStart); err != nil {
		return r.storageFailure("increment", err)
	}

	r.maybeCleanup(ctx, now)
	return true
}

// Cleanup removes windows older than the retention period. In dry-run mode
// it only counts what would be removed.
func (r *rateLimitUseCase) Cleanup(ctx context.Context, dryRun bool) (int64, error) {
	cutoff := r.nowFn().Add(-r.opts.Retention)
	if dryRun {
		return r.repo.CountBefore(ctx, cutoff)
	}
	return r.repo.DeleteBefore(ctx, cutoff)
}

// storageFailure applies the configured failure policy.
func (r *rateLimitUseCase) storageFailure(op string, err error) bool {
	slog.Warn("rate limit storage failure",
		"operation", op, "fail_open", r.opts.FailOpen, "error", err)
	return r.opts.FailOpen
}

// maybeCleanup runs retention cleanup at most once per cleanupInterval.
// Best effort: failures only log.
func (r *rateLimitUseCase) maybeCleanup(ctx context.Context, now time.Time) {
	r.mu.Lock()
	due := now.Sub(r.lastCleanup) >= cleanupInterval
	if due {
		r.lastCleanup = now
	}
	r.mu.Unlock()
	if !due {
		return
	}

	if _, err := r.repo.DeleteBefore(ctx, now.Add(-r.opts.Retention)); err != nil {
		slog.Warn("rate window cleanup failed", "error", err)
	}
}

// NewRateLimitUseCase creates a new rate limiter. Zero option fields fall
// back to the defaults.
func NewRateLimitUseCase(repo WindowRepository, opts Options) RateLimitUseCase {
	if opts.Window <= 0 {
		opts.Window = ratelimitDomain.DefaultWindow
	}
	if opts.Ceiling <= 0 {
		opts.Ceiling = ratelimitDomain.DefaultCeiling
	}
	if opts.Retention <= 0 {
		opts.Retention = ratelimitDomain.DefaultRetention
	}
	return &rateLimitUseCase{
		repo:  repo,
		opts:  opts,
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

package http

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/httputil"
)

// burstLimiterStore holds per-IP token bucket limiters with automatic cleanup.
type burstLimiterStore struct {
	limiters sync.Map // map[string]*burstLimiterEntry
	rps      float64
	burst    int
}

// burstLimiterEntry holds a limiter and last access time for cleanup.
type burstLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

// BurstLimitMiddleware enforces an in-memory per-IP token bucket in front of
// the persisted window limiter. It absorbs short spikes without a store
// round-trip; the persisted limiter remains the authority across processes.
func BurstLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := &burstLimiterStore{
		rps:   rps,
		burst: burst,
	}

	// Stale limiters are pruned every 5 minutes to bound memory under
	// IP address churn.
	go store.cleanupStale(context.Background(), 5*time.Minute)

	return func(c *gin.Context) {
		limiter := store.getLimiter(clientIP(c))

		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := int(reservation.Delay().Seconds())
			reservation.Cancel()

			logger.Debug("burst limit exceeded",
				slog.String("client_ip", clientIP(c)),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			httputil.HandleErrorGin(c, apperrors.ErrRateLimited, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// getLimiter retrieves or creates a limiter for an IP address.
func (s *burstLimiterStore) getLimiter(ip string) *rate.Limiter {
	if val, ok := s.limiters.Load(ip); ok {
		entry := val.(*burstLimiterEntry)
		entry.mu.Lock()
		entry.lastAccess = time.Now()
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &burstLimiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(s.rps), s.burst),
		lastAccess: time.Now(),
	}
	s.limiters.Store(ip, entry)
	return entry.limiter
}

// cleanupStale removes limiters not accessed in the last hour.
func (s *burstLimiterStore) cleanupStale(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			threshold := time.Now().Add(-1 * time.Hour)
			s.limiters.Range(func(key, value interface{}) bool {
				entry := value.(*burstLimiterEntry)
				entry.mu.Lock()
				stale := entry.lastAccess.Before(threshold)
				entry.mu.Unlock()
				if stale {
					s.limiters.Delete(key)
				}
				return true
			})
		}
	}
}

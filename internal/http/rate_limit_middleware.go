package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	auditDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/audit/domain"
	auditUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/audit/usecase"
	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/httputil"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/metrics"
	ratelimitUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/ratelimit/usecase"
)

// RateLimitMiddleware enforces the persisted fixed-window limit for one
// endpoint, keyed by the resolved caller address. Denials do not consume
// window capacity.
func RateLimitMiddleware(
	limiter ratelimitUsecase.RateLimitUseCase,
	endpoint string,
	sink auditUsecase.EventSink,
	securityMetrics metrics.SecurityMetrics,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		callerID := clientIP(c)

		admitted := limiter.Admit(ctx, endpoint, callerID)
		securityMetrics.RecordAdmission(ctx, endpoint, admitted)
		if !admitted {
			sink.RecordViolation(ctx, auditDomain.ViolationRateLimited, callerID,
				map[string]any{"endpoint": endpoint})
			httputil.HandleErrorGin(c, apperrors.ErrRateLimited, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

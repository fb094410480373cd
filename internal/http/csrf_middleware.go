package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	auditDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/audit/domain"
	auditUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/audit/usecase"
	csrfDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/csrf/domain"
	csrfUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/csrf/usecase"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/httputil"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/metrics"
)

// CSRFMiddleware requires a valid anti-forgery token on state-changing
// requests. The token comes from the X-CSRF-Token header or the csrf_token
// form field; the session comes from X-Session-ID or the session cookie.
// Each token validates at most once.
func CSRFMiddleware(
	tokens csrfUsecase.TokenUseCase,
	sink auditUsecase.EventSink,
	securityMetrics metrics.SecurityMetrics,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		token := csrfToken(c)
		session := sessionID(c)

		if !tokens.Validate(ctx, token, session) {
			securityMetrics.RecordCheck(ctx, "csrf", "denied")
			sink.RecordViolation(ctx, auditDomain.ViolationCSRFFailure, clientIP(c),
				map[string]any{
					"path":        c.Request.URL.Path,
					"has_token":   token != "",
					"has_session": session != "",
				})
			httputil.HandleErrorGin(c, csrfDomain.ErrTokenInvalid, logger)
			c.Abort()
			return
		}

		securityMetrics.RecordCheck(ctx, "csrf", "allowed")
		c.Next()
	}
}

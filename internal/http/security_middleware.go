package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	auditDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/audit/domain"
	auditUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/audit/usecase"
	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/httputil"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/metrics"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/realip"
	settingsUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/settings/usecase"
)

// SecurityGuard enforces the referrer and user-agent policy on every
// protected request. Settings are re-read per request so admin changes take
// effect without a restart, at the cost of one store read.
type SecurityGuard struct {
	settings  settingsUsecase.SettingsUseCase
	resolver  realip.Resolver
	cdnDomain string
	sink      auditUsecase.EventSink
	metrics   metrics.SecurityMetrics
	logger    *slog.Logger
}

// NewSecurityGuard creates a new security guard. cdnDomain may be empty when
// no CDN fronts the deployment.
func NewSecurityGuard(
	settings settingsUsecase.SettingsUseCase,
	resolver realip.Resolver,
	cdnDomain string,
	sink auditUsecase.EventSink,
	securityMetrics metrics.SecurityMetrics,
	logger *slog.Logger,
) *SecurityGuard {
	return &SecurityGuard{
		settings:  settings,
		resolver:  resolver,
		cdnDomain: cdnDomain,
		sink:      sink,
		metrics:   securityMetrics,
		logger:    logger,
	}
}

// Enforce returns the guard middleware. It resolves the caller address for
// downstream handlers even when enforcement is switched off.
func (g *SecurityGuard) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		ip := g.resolver.Resolve(c.Request.Header, c.Request.RemoteAddr)
		setClientIP(c, ip)

		sec := g.settings.Security(ctx)
		if !sec.ReferrerCheckEnabled {
			c.Next()
			return
		}

		if sec.UserAgentCheckEnabled {
			if blocked, needle := matchUserAgent(c.Request.UserAgent(), sec.BlockedUserAgents); blocked {
				g.metrics.RecordCheck(ctx, "user_agent", "denied")
				if sec.LogBlockedAttempts {
					g.sink.RecordViolation(ctx, auditDomain.ViolationBlockedUserAgent, ip,
						map[string]any{
							"user_agent": c.Request.UserAgent(),
							"matched":    needle,
							"path":       c.Request.URL.Path,
						})
				}
				g.deny(c)
				return
			}
			g.metrics.RecordCheck(ctx, "user_agent", "allowed")
		}

		referrer := c.Request.Referer()
		if referrer == "" {
			// No referrer is ambiguous: plenty of legitimate clients
			// strip it, but strict deployments treat absence as denial.
			if sec.StrictMode {
				g.metrics.RecordCheck(ctx, "referrer", "denied")
				if sec.LogBlockedAttempts {
					g.sink.RecordViolation(ctx, auditDomain.ViolationInvalidReferrer, ip,
						map[string]any{"referrer": "", "path": c.Request.URL.Path})
				}
				g.deny(c)
				return
			}
			g.metrics.RecordCheck(ctx, "referrer", "allowed")
			g.recordAccess(c, ip, realip.ValidationInvalid)
			c.Next()
			return
		}

		classifier := realip.Classifier{
			CDNDomain:      g.cdnDomain,
			AllowedEntries: sec.AllowedReferrerDomains,
		}
		classification := classifier.Classify(referrer)
		g.metrics.RecordClassification(ctx, string(classification.Type))

		if !classification.IsValid {
			g.metrics.RecordCheck(ctx, "referrer", "denied")
			if sec.LogBlockedAttempts {
				g.sink.RecordViolation(ctx, auditDomain.ViolationInvalidReferrer, ip,
					map[string]any{"referrer": referrer, "path": c.Request.URL.Path})
			}
			g.deny(c)
			return
		}

		g.metrics.RecordCheck(ctx, "referrer", "allowed")
		g.recordAccess(c, ip, classification.Type)
		c.Next()
	}
}

// recordAccess appends the audit trail entry for an admitted request.
func (g *SecurityGuard) recordAccess(c *gin.Context, ip string, classification realip.ValidationType) {
	g.sink.RecordAccess(c.Request.Context(), &auditDomain.AccessEntry{
		Endpoint:       c.Request.URL.Path,
		Action:         c.Request.Method,
		ResolvedIP:     ip,
		RawHeaders:     c.Request.Header,
		Classification: string(classification),
		SessionID:      sessionID(c),
	})
}

// deny aborts the request with the uniform denial response.
func (g *SecurityGuard) deny(c *gin.Context) {
	httputil.HandleErrorGin(c, apperrors.ErrForbidden, g.logger)
	c.Abort()
}

// matchUserAgent reports whether the user agent contains any blocked
// substring. Matching is case insensitive; blank entries never match.
func matchUserAgent(userAgent string, blocked []string) (bool, string) {
	lowered := strings.ToLower(userAgent)
	for _, needle := range blocked {
		trimmed := strings.TrimSpace(needle)
		if trimmed == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(trimmed)) {
			return true, trimmed
		}
	}
	return false, ""
}

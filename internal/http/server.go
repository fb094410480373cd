package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	otelmetric "go.opentelemetry.io/otel/metric"

	auditUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/audit/usecase"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/config"
	csrfUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/csrf/usecase"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/metrics"
	ratelimitUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/ratelimit/usecase"
)

// Endpoint names used as rate limit window keys.
const (
	endpointAuthVerify = "auth_verify"
	endpointCSRFToken  = "csrf_token"
	endpointAdmin      = "admin"
)

// Server wraps the Gin-backed API server.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer assembles the router: observability middleware first, then the
// security guard, then per-endpoint burst and window limits, then handlers.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	handler *Handler,
	guard *SecurityGuard,
	tokens csrfUsecase.TokenUseCase,
	limiter ratelimitUsecase.RateLimitUseCase,
	sink auditUsecase.EventSink,
	securityMetrics metrics.SecurityMetrics,
	meterProvider otelmetric.MeterProvider,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(LoggingMiddleware(logger))

	if meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(meterProvider, cfg.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	api := router.Group("/api")
	api.Use(guard.Enforce())

	csrfRequired := CSRFMiddleware(tokens, sink, securityMetrics, logger)

	auth := api.Group("/auth")
	if cfg.BurstLimitEnabled {
		auth.Use(BurstLimitMiddleware(cfg.BurstLimitRequestsPerSec, cfg.BurstLimitBurst, logger))
	}
	auth.POST("/verify",
		RateLimitMiddleware(limiter, endpointAuthVerify, sink, securityMetrics, logger),
		csrfRequired,
		handler.VerifyPassphrase,
	)

	api.GET("/csrf-token",
		RateLimitMiddleware(limiter, endpointCSRFToken, sink, securityMetrics, logger),
		handler.IssueToken,
	)

	admin := api.Group("/admin")
	admin.Use(RateLimitMiddleware(limiter, endpointAdmin, sink, securityMetrics, logger))
	admin.GET("/access-logs", handler.ListAccessLogs)
	admin.GET("/violations", handler.ListViolations)
	admin.GET("/settings/:key", handler.GetSetting)
	admin.PUT("/settings/:key", csrfRequired, handler.UpdateSetting)
	admin.GET("/settings/:key/history", handler.SettingHistory)

	return &Server{
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start starts the API server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// LoggingMiddleware logs each request with its resolved status and latency.
func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", clientIP(c)),
			slog.String("request_id", requestid.Get(c)),
		)
	}
}

// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	otelmetric "go.opentelemetry.io/otel/metric"

	auditRepository "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/audit/repository"
	auditUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/audit/usecase"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/config"
	credentialService "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/credential/service"
	credentialUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/credential/usecase"
	csrfRepository "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/csrf/repository"
	csrfService "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/csrf/service"
	csrfUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/csrf/usecase"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/http"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/metrics"
	ratelimitRepository "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/ratelimit/repository"
	ratelimitUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/ratelimit/usecase"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/realip"
	settingsDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/settings/domain"
	settingsRepository "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/settings/repository"
	settingsUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/settings/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger *slog.Logger
	db     *sql.DB

	// Managers
	txManager database.TxManager

	// Repositories
	settingsRepo settingsUsecase.SettingsRepository
	tokenRepo    csrfUsecase.TokenRepository
	windowRepo   ratelimitUsecase.WindowRepository
	auditRepo    auditUsecase.AuditRepository

	// Use Cases
	settingsUseCase   settingsUsecase.SettingsUseCase
	credentialUseCase credentialUsecase.CredentialUseCase
	tokenUseCase      csrfUsecase.TokenUseCase
	rateLimitUseCase  ratelimitUsecase.RateLimitUseCase
	eventSink         auditUsecase.EventSink

	// Metrics
	metricsProvider *metrics.Provider
	securityMetrics metrics.SecurityMetrics
	meterProvider   otelmetric.MeterProvider

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                    sync.Mutex
	loggerInit            sync.Once
	dbInit                sync.Once
	txManagerInit         sync.Once
	settingsRepoInit      sync.Once
	tokenRepoInit         sync.Once
	windowRepoInit        sync.Once
	auditRepoInit         sync.Once
	settingsUseCaseInit   sync.Once
	credentialUseCaseInit sync.Once
	tokenUseCaseInit      sync.Once
	rateLimitUseCaseInit  sync.Once
	eventSinkInit         sync.Once
	metricsInit           sync.Once
	httpServerInit        sync.Once
	metricsServerInit     sync.Once
	initErrors            map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.initErrors["db"] = err
			return
		}
		c.db = db
	})
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["txManager"] = fmt.Errorf("failed to get database for tx manager: %w", err)
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// SettingsRepository returns the settings repository instance.
func (c *Container) SettingsRepository() (settingsUsecase.SettingsRepository, error) {
	c.settingsRepoInit.Do(func() {
		repo, err := c.initSettingsRepository()
		if err != nil {
			c.initErrors["settingsRepo"] = err
			return
		}
		c.settingsRepo = repo
	})
	if storedErr, exists := c.initErrors["settingsRepo"]; exists {
		return nil, storedErr
	}
	return c.settingsRepo, nil
}

// TokenRepository returns the anti-forgery token repository instance.
func (c *Container) TokenRepository() (csrfUsecase.TokenRepository, error) {
	c.tokenRepoInit.Do(func() {
		repo, err := c.initTokenRepository()
		if err != nil {
			c.initErrors["tokenRepo"] = err
			return
		}
		c.tokenRepo = repo
	})
	if storedErr, exists := c.initErrors["tokenRepo"]; exists {
		return nil, storedErr
	}
	return c.tokenRepo, nil
}

// WindowRepository returns the rate window repository instance.
func (c *Container) WindowRepository() (ratelimitUsecase.WindowRepository, error) {
	c.windowRepoInit.Do(func() {
		repo, err := c.initWindowRepository()
		if err != nil {
			c.initErrors["windowRepo"] = err
			return
		}
		c.windowRepo = repo
	})
	if storedErr, exists := c.initErrors["windowRepo"]; exists {
		return nil, storedErr
	}
	return c.windowRepo, nil
}

// AuditRepository returns the audit log repository instance.
func (c *Container) AuditRepository() (auditUsecase.AuditRepository, error) {
	c.auditRepoInit.Do(func() {
		repo, err := c.initAuditRepository()
		if err != nil {
			c.initErrors["auditRepo"] = err
			return
		}
		c.auditRepo = repo
	})
	if storedErr, exists := c.initErrors["auditRepo"]; exists {
		return nil, storedErr
	}
	return c.auditRepo, nil
}

// SettingsUseCase returns the settings use case instance.
func (c *Container) SettingsUseCase() (settingsUsecase.SettingsUseCase, error) {
	c.settingsUseCaseInit.Do(func() {
		useCase, err := c.initSettingsUseCase()
		if err != nil {
			c.initErrors["settingsUseCase"] = err
			return
		}
		c.settingsUseCase = useCase
	})
	if storedErr, exists := c.initErrors["settingsUseCase"]; exists {
		return nil, storedErr
	}
	return c.settingsUseCase, nil
}

// CredentialUseCase returns the credential use case instance.
func (c *Container) CredentialUseCase() (credentialUsecase.CredentialUseCase, error) {
	c.credentialUseCaseInit.Do(func() {
		settingsUC, err := c.SettingsUseCase()
		if err != nil {
			c.initErrors["credentialUseCase"] = fmt.Errorf(
				"failed to get settings use case for credential use case: %w", err)
			return
		}
		c.credentialUseCase = credentialUsecase.NewCredentialUseCase(
			credentialService.NewPassphraseManager(),
			settingsUC,
		)
	})
	if storedErr, exists := c.initErrors["credentialUseCase"]; exists {
		return nil, storedErr
	}
	return c.credentialUseCase, nil
}

// TokenUseCase returns the anti-forgery token use case instance.
func (c *Container) TokenUseCase() (csrfUsecase.TokenUseCase, error) {
	c.tokenUseCaseInit.Do(func() {
		repo, err := c.TokenRepository()
		if err != nil {
			c.initErrors["tokenUseCase"] = fmt.Errorf(
				"failed to get token repository for token use case: %w", err)
			return
		}
		c.tokenUseCase = csrfUsecase.NewTokenUseCase(
			csrfService.NewTokenGenerator(),
			repo,
			c.config.CSRFTokenExpiration,
		)
	})
	if storedErr, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

// RateLimitUseCase returns the rate limit use case instance.
func (c *Container) RateLimitUseCase() (ratelimitUsecase.RateLimitUseCase, error) {
	c.rateLimitUseCaseInit.Do(func() {
		repo, err := c.WindowRepository()
		if err != nil {
			c.initErrors["rateLimitUseCase"] = fmt.Errorf(
				"failed to get window repository for rate limit use case: %w", err)
			return
		}
		c.rateLimitUseCase = ratelimitUsecase.NewRateLimitUseCase(repo, ratelimitUsecase.Options{
			Window:    c.config.RateLimitWindow,
			Ceiling:   c.config.RateLimitCeiling,
			Retention: c.config.RateLimitRetention,
			FailOpen:  c.config.RateLimitFailOpen,
		})
	})
	if storedErr, exists := c.initErrors["rateLimitUseCase"]; exists {
		return nil, storedErr
	}
	return c.rateLimitUseCase, nil
}

// EventSink returns the security event sink instance.
func (c *Container) EventSink() (auditUsecase.EventSink, error) {
	c.eventSinkInit.Do(func() {
		repo, err := c.AuditRepository()
		if err != nil {
			c.initErrors["eventSink"] = fmt.Errorf(
				"failed to get audit repository for event sink: %w", err)
			return
		}
		c.eventSink = auditUsecase.NewEventSink(repo, c.config.AccessLogRetention)
	})
	if storedErr, exists := c.initErrors["eventSink"]; exists {
		return nil, storedErr
	}
	return c.eventSink, nil
}

// SecurityMetrics returns the security metrics recorder. When metrics are
// disabled it returns a no-op recorder and no meter provider.
func (c *Container) SecurityMetrics() (metrics.SecurityMetrics, error) {
	if err := c.initMetrics(); err != nil {
		return nil, err
	}
	return c.securityMetrics, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	if err := c.initMetrics(); err != nil {
		return nil, err
	}
	return c.metricsProvider, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance, or nil when metrics are
// disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initSettingsRepository creates the settings repository instance.
func (c *Container) initSettingsRepository() (settingsUsecase.SettingsRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for settings repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return settingsRepository.NewMySQLSettingsRepository(db), nil
	case "postgres":
		return settingsRepository.NewPostgreSQLSettingsRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTokenRepository creates the anti-forgery token repository instance.
func (c *Container) initTokenRepository() (csrfUsecase.TokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for token repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return csrfRepository.NewMySQLTokenRepository(db), nil
	case "postgres":
		return csrfRepository.NewPostgreSQLTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initWindowRepository creates the rate window repository instance.
func (c *Container) initWindowRepository() (ratelimitUsecase.WindowRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for window repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return ratelimitRepository.NewMySQLWindowRepository(db), nil
	case "postgres":
		return ratelimitRepository.NewPostgreSQLWindowRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuditRepository creates the audit log repository instance.
func (c *Container) initAuditRepository() (auditUsecase.AuditRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return auditRepository.NewMySQLAuditRepository(db), nil
	case "postgres":
		return auditRepository.NewPostgreSQLAuditRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSettingsUseCase creates the settings use case with environment-level
// fallbacks for the security settings.
func (c *Container) initSettingsUseCase() (settingsUsecase.SettingsUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for settings use case: %w", err)
	}

	repo, err := c.SettingsRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings repository for settings use case: %w", err)
	}

	defaults := settingsDomain.SecuritySettings{
		ReferrerCheckEnabled:   c.config.ReferrerCheckEnabled,
		AllowedReferrerDomains: splitList(c.config.AllowedReferrerDomains),
		BlockedUserAgents:      splitList(c.config.BlockedUserAgents),
		StrictMode:             c.config.StrictMode,
		LogBlockedAttempts:     c.config.LogBlockedAttempts,
		UserAgentCheckEnabled:  c.config.UserAgentCheckEnabled,
	}

	return settingsUsecase.NewSettingsUseCase(txManager, repo, defaults), nil
}

// initMetrics creates the metrics provider and security metrics recorder.
// When metrics are disabled the recorder is a no-op and the provider stays nil.
func (c *Container) initMetrics() error {
	c.metricsInit.Do(func() {
		if !c.config.MetricsEnabled {
			c.securityMetrics = metrics.NewNoOpSecurityMetrics()
			return
		}

		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metrics"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}

		securityMetrics, err := metrics.NewSecurityMetrics(
			provider.MeterProvider(),
			c.config.MetricsNamespace,
		)
		if err != nil {
			c.initErrors["metrics"] = fmt.Errorf("failed to create security metrics: %w", err)
			return
		}

		c.metricsProvider = provider
		c.securityMetrics = securityMetrics
		c.meterProvider = provider.MeterProvider()
	})
	if storedErr, exists := c.initErrors["metrics"]; exists {
		return storedErr
	}
	return nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	settingsUC, err := c.SettingsUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings use case for http server: %w", err)
	}

	credentialUC, err := c.CredentialUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential use case for http server: %w", err)
	}

	tokenUC, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for http server: %w", err)
	}

	rateLimitUC, err := c.RateLimitUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limit use case for http server: %w", err)
	}

	sink, err := c.EventSink()
	if err != nil {
		return nil, fmt.Errorf("failed to get event sink for http server: %w", err)
	}

	securityMetrics, err := c.SecurityMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get security metrics for http server: %w", err)
	}

	resolver := realip.Resolver{
		TrustCDNHeader:    c.config.CDNSecurityEnabled && c.config.TrustCDNHeader,
		StrictSyntaxCheck: c.config.StrictIPSyntaxCheck,
	}

	cdnDomain := ""
	if c.config.CDNSecurityEnabled {
		cdnDomain = c.config.CDNDomain
	}

	guard := http.NewSecurityGuard(settingsUC, resolver, cdnDomain, sink, securityMetrics, logger)
	handler := http.NewHandler(credentialUC, tokenUC, settingsUC, sink, securityMetrics, logger)

	return http.NewServer(
		c.config,
		logger,
		handler,
		guard,
		tokenUC,
		rateLimitUC,
		sink,
		securityMetrics,
		c.meterProvider,
	), nil
}

// splitList parses a comma-separated environment value into trimmed entries.
func splitList(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	entries := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			entries = append(entries, trimmed)
		}
	}
	return entries
}

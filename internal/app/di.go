// Package app provides the dependency injection container assembling the
// offline access subsystem.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	catalogUsecase "github.com/eduvault/eduvault/internal/catalog/usecase"
	"github.com/eduvault/eduvault/internal/client/api"
	"github.com/eduvault/eduvault/internal/client/cache"
	"github.com/eduvault/eduvault/internal/client/lifecycle"
	"github.com/eduvault/eduvault/internal/client/playback"
	"github.com/eduvault/eduvault/internal/config"
	contentService "github.com/eduvault/eduvault/internal/content/service"
	contentUsecase "github.com/eduvault/eduvault/internal/content/usecase"
	cryptoDomain "github.com/eduvault/eduvault/internal/crypto/domain"
	cryptoService "github.com/eduvault/eduvault/internal/crypto/service"
	cryptoUsecase "github.com/eduvault/eduvault/internal/crypto/usecase"
	"github.com/eduvault/eduvault/internal/database"
	entitlementUsecase "github.com/eduvault/eduvault/internal/entitlement/usecase"
	"github.com/eduvault/eduvault/internal/http"
	"github.com/eduvault/eduvault/internal/metrics"
	offlineHTTP "github.com/eduvault/eduvault/internal/offline/http"
	offlineUsecase "github.com/eduvault/eduvault/internal/offline/usecase"
	tokenHTTP "github.com/eduvault/eduvault/internal/token/http"
	tokenUsecase "github.com/eduvault/eduvault/internal/token/usecase"
)

// Container holds all application dependencies and provides methods to access
// them. Components are created lazily on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger *slog.Logger
	db     *sql.DB

	// Managers
	txManager database.TxManager

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Crypto
	kmsService   cryptoService.KMSService
	masterSecret *cryptoDomain.MasterSecret
	keyUseCase   cryptoUsecase.KeyUseCase

	// Catalog and entitlements
	resourceRepo       catalogUsecase.ResourceRepository
	resourceUseCase    catalogUsecase.ResourceUseCase
	entitlementRepo    entitlementUsecase.EntitlementRepository
	entitlementChecker entitlementUsecase.Checker
	registrar          catalogUsecase.Registrar

	// Content
	blobRepo       contentUsecase.BlobRepository
	contentSource  contentService.ContentSource
	contentUseCase contentUsecase.ContentUseCase

	// Tokens
	tokenRepo    tokenUsecase.TokenRepository
	tokenUseCase tokenUsecase.TokenUseCase
	tokenHandler *tokenHTTP.TokenHandler

	// Offline registry
	offlineRepo    offlineUsecase.OfflineRepository
	offlineUseCase offlineUsecase.OfflineUseCase
	offlineHandler *offlineHTTP.OfflineHandler

	// Client side
	apiClient        *api.Client
	cacheStore       *cache.Store
	playbackEngine   *playback.Engine
	lifecycleManager *lifecycle.Manager

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                     sync.Mutex
	loggerInit             sync.Once
	dbInit                 sync.Once
	txManagerInit          sync.Once
	metricsProviderInit    sync.Once
	businessMetricsInit    sync.Once
	kmsServiceInit         sync.Once
	masterSecretInit       sync.Once
	keyUseCaseInit         sync.Once
	resourceRepoInit       sync.Once
	resourceUseCaseInit    sync.Once
	entitlementRepoInit    sync.Once
	entitlementCheckerInit sync.Once
	registrarInit          sync.Once
	blobRepoInit           sync.Once
	contentSourceInit      sync.Once
	contentUseCaseInit     sync.Once
	tokenRepoInit          sync.Once
	tokenUseCaseInit       sync.Once
	tokenHandlerInit       sync.Once
	offlineRepoInit        sync.Once
	offlineUseCaseInit     sync.Once
	offlineHandlerInit     sync.Once
	apiClientInit          sync.Once
	cacheStoreInit         sync.Once
	playbackEngineInit     sync.Once
	lifecycleManagerInit   sync.Once
	httpServerInit         sync.Once
	metricsServerInit      sync.Once
	initErrors             map[string]error
}

// NewContainer creates a new dependency injection container with the provided
// configuration.
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
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are
// disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. When metrics are
// disabled this is a no-op implementation.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
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

	if c.cacheStore != nil {
		if err := c.cacheStore.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("cache close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if c.masterSecret != nil {
		c.masterSecret.Close()
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

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initMetricsProvider creates the metrics provider when metrics are enabled.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	tokenHandler, err := c.TokenHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get token handler for http server: %w", err)
	}

	offlineHandler, err := c.OfflineHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get offline handler for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	return http.NewServer(
		c.config,
		tokenHandler,
		offlineHandler,
		metricsProvider,
		c.Logger(),
	), nil
}

// initMetricsServer creates the metrics server when metrics are enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if metricsProvider == nil {
		return nil, nil
	}

	return http.NewMetricsServer(
		c.config.ServerHost,
		c.config.MetricsPort,
		c.Logger(),
		metricsProvider,
	), nil
}

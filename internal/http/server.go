// Package http wires the gin engine, routes, and server lifecycle.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/eduvault/eduvault/internal/config"
	entitlementHTTP "github.com/eduvault/eduvault/internal/entitlement/http"
	"github.com/eduvault/eduvault/internal/metrics"
	offlineHTTP "github.com/eduvault/eduvault/internal/offline/http"
	tokenHTTP "github.com/eduvault/eduvault/internal/token/http"
)

// Server is the main HTTP server exposing the offline resource access API.
type Server struct {
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates the server and registers all routes.
func NewServer(
	cfg *config.Config,
	tokenHandler *tokenHTTP.TokenHandler,
	offlineHandler *offlineHTTP.OfflineHandler,
	metricsProvider *metrics.Provider,
	logger *slog.Logger,
) *Server {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(requestid.New())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsEnabled && metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	s := &Server{
		router: router,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	s.registerRoutes(cfg, tokenHandler, offlineHandler, logger)
	return s
}

// registerRoutes mounts the API surface.
//
// Token issuance and the offline registry require a principal; redemption
// endpoints authenticate with the token itself. The rate limit sits on every
// endpoint that touches token state.
func (s *Server) registerRoutes(
	cfg *config.Config,
	tokenHandler *tokenHTTP.TokenHandler,
	offlineHandler *offlineHTTP.OfflineHandler,
	logger *slog.Logger,
) {
	s.router.GET("/health", HealthHandler)

	v1 := s.router.Group("/v1")

	var tokenLimit gin.HandlerFunc
	if cfg.RateLimitTokenEnabled {
		tokenLimit = TokenRateLimitMiddleware(
			cfg.RateLimitTokenRequestsPerSec,
			cfg.RateLimitTokenBurst,
			logger,
		)
	}

	// Token issuance: principal required.
	issue := v1.Group("")
	issue.Use(entitlementHTTP.PrincipalMiddleware(logger))
	if tokenLimit != nil {
		issue.Use(tokenLimit)
	}
	issue.POST("/resources/:resource_id/download-token", tokenHandler.IssueDownloadTokenHandler)
	issue.POST("/resources/:resource_id/decrypt-token", tokenHandler.IssueDecryptTokenHandler)

	// Token redemption: the token is the credential.
	redeem := v1.Group("")
	if tokenLimit != nil {
		redeem.Use(tokenLimit)
	}
	redeem.POST("/downloads", tokenHandler.RedeemDownloadHandler)
	redeem.POST("/decrypt-keys", tokenHandler.RedeemDecryptHandler)

	// Offline registry: principal required.
	offline := v1.Group("/offline-resources")
	offline.Use(entitlementHTTP.PrincipalMiddleware(logger))
	offline.POST("", offlineHandler.RegisterDownloadHandler)
	offline.GET("", offlineHandler.ListHandler)
	offline.GET("/:resource_id", offlineHandler.GetHandler)
	offline.POST("/:resource_id/touch", offlineHandler.TouchHandler)
	offline.DELETE("/:resource_id", offlineHandler.DeleteHandler)
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	s.router.GET("/ready", ReadinessHandler(ctx))

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

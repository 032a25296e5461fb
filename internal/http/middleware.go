package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/eduvault/eduvault/internal/httputil"
)

// LoggerMiddleware logs one structured line per HTTP request.
func LoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("http request",
			slog.String("request_id", requestid.Get(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

// RecoveryMiddleware recovers from handler panics and returns a generic 500.
func RecoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					slog.Any("error", err),
					slog.String("path", c.Request.URL.Path),
					slog.String("method", c.Request.Method),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, httputil.ErrorResponse{
					Error:   "internal_error",
					Message: "An internal error occurred",
				})
			}
		}()

		c.Next()
	}
}

// HealthHandler reports liveness.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// ReadinessHandler reports readiness against the base context: once the
// application starts shutting down, readiness flips to 503 so load balancers
// drain traffic.
func ReadinessHandler(baseCtx interface{ Done() <-chan struct{} }) gin.HandlerFunc {
	return func(c *gin.Context) {
		select {
		case <-baseCtx.Done():
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		default:
			c.JSON(http.StatusOK, gin.H{"status": "ready"})
		}
	}
}

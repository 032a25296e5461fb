package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eduvault/eduvault/internal/httputil"
)

// PrincipalHeader carries the identity established by the platform's auth
// layer in front of this service. This service trusts the header; verifying it
// is the gateway's job.
const PrincipalHeader = "X-Principal-ID"

// PrincipalMiddleware extracts the principal id from the request header and
// stores it in the request context. Requests without a principal are rejected
// with 401 before reaching any handler.
func PrincipalMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principalID := strings.TrimSpace(c.GetHeader(PrincipalHeader))
		if principalID == "" {
			logger.Debug("request without principal header",
				slog.String("path", c.Request.URL.Path))

			c.JSON(http.StatusUnauthorized, httputil.ErrorResponse{
				Error:   "unauthorized",
				Message: "Authentication is required",
			})
			c.Abort()
			return
		}

		ctx := WithPrincipal(c.Request.Context(), principalID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/eduvault/eduvault/internal/config"
	offlineHTTP "github.com/eduvault/eduvault/internal/offline/http"
	tokenHTTP "github.com/eduvault/eduvault/internal/token/http"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// The per-IP rate limiter keeps a cleanup goroutine for the process lifetime.
		goleak.IgnoreTopFunction("github.com/eduvault/eduvault/internal/http.(*tokenRateLimiterStore).cleanupStale"),
	)
}

func testServer(cfg *config.Config) *Server {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	tokenHandler := tokenHTTP.NewTokenHandler(nil, logger)
	offlineHandler := offlineHTTP.NewOfflineHandler(nil, logger)
	return NewServer(cfg, tokenHandler, offlineHandler, nil, logger)
}

func TestServer_Health(t *testing.T) {
	server := testServer(&config.Config{LogLevel: "info"})

	rec := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestServer_PrincipalRequired(t *testing.T) {
	server := testServer(&config.Config{LogLevel: "info"})

	rec := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/offline-resources", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_UnknownRoute(t *testing.T) {
	server := testServer(&config.Config{LogLevel: "info"})

	rec := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_TokenRateLimit(t *testing.T) {
	cfg := &config.Config{
		LogLevel:                     "info",
		RateLimitTokenEnabled:        true,
		RateLimitTokenRequestsPerSec: 1.0,
		RateLimitTokenBurst:          1,
	}
	server := testServer(cfg)

	first := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/v1/downloads", nil))
	assert.NotEqual(t, http.StatusTooManyRequests, first.Code)

	second := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/v1/downloads", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}

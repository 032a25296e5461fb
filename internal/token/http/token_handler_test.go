package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	contentDomain "github.com/eduvault/eduvault/internal/content/domain"
	entitlementHTTP "github.com/eduvault/eduvault/internal/entitlement/http"
	apperrors "github.com/eduvault/eduvault/internal/errors"
	tokenDomain "github.com/eduvault/eduvault/internal/token/domain"
	tokenUseCase "github.com/eduvault/eduvault/internal/token/usecase"
)

// mockTokenUseCase is a mock implementation of TokenUseCase for testing.
type mockTokenUseCase struct {
	mock.Mock
}

func (m *mockTokenUseCase) Issue(
	ctx context.Context,
	principalID string,
	resourceID uuid.UUID,
	purpose tokenDomain.Purpose,
) (*tokenUseCase.IssuedToken, error) {
	args := m.Called(ctx, principalID, resourceID, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenUseCase.IssuedToken), args.Error(1)
}

func (m *mockTokenUseCase) RedeemDownload(
	ctx context.Context, plainToken string,
) (contentDomain.EncryptedBlob, error) {
	args := m.Called(ctx, plainToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(contentDomain.EncryptedBlob), args.Error(1)
}

func (m *mockTokenUseCase) RedeemDecrypt(ctx context.Context, plainToken string) (string, error) {
	args := m.Called(ctx, plainToken)
	return args.String(0), args.Error(1)
}

func (m *mockTokenUseCase) CleanupExpired(
	ctx context.Context, olderThan time.Duration,
) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func setupTokenRouter(uc tokenUseCase.TokenUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewTokenHandler(uc, testLogger())

	router := gin.New()
	issue := router.Group("/v1")
	issue.Use(entitlementHTTP.PrincipalMiddleware(testLogger()))
	issue.POST("/resources/:resource_id/download-token", handler.IssueDownloadTokenHandler)
	issue.POST("/resources/:resource_id/decrypt-token", handler.IssueDecryptTokenHandler)

	router.POST("/v1/downloads", handler.RedeemDownloadHandler)
	router.POST("/v1/decrypt-keys", handler.RedeemDecryptHandler)
	return router
}

func TestTokenHandler_IssueDownloadToken(t *testing.T) {
	t.Run("issues a token", func(t *testing.T) {
		uc := &mockTokenUseCase{}
		router := setupTokenRouter(uc)
		resourceID := uuid.Must(uuid.NewV7())
		expiresAt := time.Now().UTC().Add(5 * time.Minute)

		uc.On("Issue", mock.Anything, "student-1", resourceID, tokenDomain.PurposeDownload).
			Return(&tokenUseCase.IssuedToken{Token: "plain-token", ExpiresAt: expiresAt}, nil).
			Once()

		req := httptest.NewRequest(
			http.MethodPost,
			"/v1/resources/"+resourceID.String()+"/download-token",
			nil,
		)
		req.Header.Set("X-Principal-ID", "student-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			Token     string    `json:"token"`
			ExpiresAt time.Time `json:"expires_at"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "plain-token", resp.Token)
		uc.AssertExpectations(t)
	})

	t.Run("rejects a request without principal", func(t *testing.T) {
		uc := &mockTokenUseCase{}
		router := setupTokenRouter(uc)

		req := httptest.NewRequest(
			http.MethodPost,
			"/v1/resources/"+uuid.Must(uuid.NewV7()).String()+"/download-token",
			nil,
		)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		uc.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("maps not entitled to 403", func(t *testing.T) {
		uc := &mockTokenUseCase{}
		router := setupTokenRouter(uc)
		resourceID := uuid.Must(uuid.NewV7())

		uc.On("Issue", mock.Anything, "student-1", resourceID, tokenDomain.PurposeDownload).
			Return(nil, apperrors.ErrNotEntitled).
			Once()

		req := httptest.NewRequest(
			http.MethodPost,
			"/v1/resources/"+resourceID.String()+"/download-token",
			nil,
		)
		req.Header.Set("X-Principal-ID", "student-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "not_entitled")
	})

	t.Run("rejects a malformed resource id", func(t *testing.T) {
		uc := &mockTokenUseCase{}
		router := setupTokenRouter(uc)

		req := httptest.NewRequest(http.MethodPost, "/v1/resources/not-a-uuid/download-token", nil)
		req.Header.Set("X-Principal-ID", "student-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestTokenHandler_RedeemDownload(t *testing.T) {
	t.Run("returns the encrypted blob", func(t *testing.T) {
		uc := &mockTokenUseCase{}
		router := setupTokenRouter(uc)
		blob := contentDomain.EncryptedBlob("encrypted bytes")

		uc.On("RedeemDownload", mock.Anything, "plain-token").Return(blob, nil).Once()

		body, _ := json.Marshal(map[string]string{"token": "plain-token"})
		req := httptest.NewRequest(http.MethodPost, "/v1/downloads", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
		assert.Equal(t, []byte(blob), rec.Body.Bytes())
	})

	t.Run("maps already used to 401", func(t *testing.T) {
		uc := &mockTokenUseCase{}
		router := setupTokenRouter(uc)

		uc.On("RedeemDownload", mock.Anything, "burned-token").
			Return(nil, apperrors.ErrTokenAlreadyUsed).
			Once()

		body, _ := json.Marshal(map[string]string{"token": "burned-token"})
		req := httptest.NewRequest(http.MethodPost, "/v1/downloads", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "token_already_used")
	})

	t.Run("rejects an empty token", func(t *testing.T) {
		uc := &mockTokenUseCase{}
		router := setupTokenRouter(uc)

		body, _ := json.Marshal(map[string]string{"token": ""})
		req := httptest.NewRequest(http.MethodPost, "/v1/downloads", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		uc.AssertNotCalled(t, "RedeemDownload", mock.Anything, mock.Anything)
	})
}

func TestTokenHandler_RedeemDecrypt(t *testing.T) {
	t.Run("returns the access key", func(t *testing.T) {
		uc := &mockTokenUseCase{}
		router := setupTokenRouter(uc)

		uc.On("RedeemDecrypt", mock.Anything, "plain-token").Return("the-access-key", nil).Once()

		body, _ := json.Marshal(map[string]string{"token": "plain-token"})
		req := httptest.NewRequest(http.MethodPost, "/v1/decrypt-keys", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "the-access-key")
	})

	t.Run("maps purpose mismatch to 401", func(t *testing.T) {
		uc := &mockTokenUseCase{}
		router := setupTokenRouter(uc)

		uc.On("RedeemDecrypt", mock.Anything, "download-token").
			Return("", apperrors.ErrTokenPurposeMismatch).
			Once()

		body, _ := json.Marshal(map[string]string{"token": "download-token"})
		req := httptest.NewRequest(http.MethodPost, "/v1/decrypt-keys", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "token_purpose_mismatch")
	})
}

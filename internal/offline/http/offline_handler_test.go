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

	entitlementHTTP "github.com/eduvault/eduvault/internal/entitlement/http"
	offlineDomain "github.com/eduvault/eduvault/internal/offline/domain"
	offlineUseCase "github.com/eduvault/eduvault/internal/offline/usecase"
)

// mockOfflineUseCase is a mock implementation of OfflineUseCase for testing.
type mockOfflineUseCase struct {
	mock.Mock
}

func (m *mockOfflineUseCase) RegisterDownload(
	ctx context.Context, principalID string, resourceID uuid.UUID,
) (*offlineUseCase.RecordStatus, error) {
	args := m.Called(ctx, principalID, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offlineUseCase.RecordStatus), args.Error(1)
}

func (m *mockOfflineUseCase) Get(
	ctx context.Context, principalID string, resourceID uuid.UUID,
) (*offlineUseCase.RecordStatus, error) {
	args := m.Called(ctx, principalID, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offlineUseCase.RecordStatus), args.Error(1)
}

func (m *mockOfflineUseCase) List(
	ctx context.Context, principalID string,
) ([]*offlineUseCase.RecordStatus, error) {
	args := m.Called(ctx, principalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*offlineUseCase.RecordStatus), args.Error(1)
}

func (m *mockOfflineUseCase) Touch(
	ctx context.Context, principalID string, resourceID uuid.UUID,
) (*offlineUseCase.RecordStatus, error) {
	args := m.Called(ctx, principalID, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offlineUseCase.RecordStatus), args.Error(1)
}

func (m *mockOfflineUseCase) Delete(
	ctx context.Context, principalID string, resourceID uuid.UUID,
) error {
	args := m.Called(ctx, principalID, resourceID)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func setupOfflineRouter(uc offlineUseCase.OfflineUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewOfflineHandler(uc, testLogger())

	router := gin.New()
	group := router.Group("/v1/offline-resources")
	group.Use(entitlementHTTP.PrincipalMiddleware(testLogger()))
	group.POST("", handler.RegisterDownloadHandler)
	group.GET("", handler.ListHandler)
	group.GET("/:resource_id", handler.GetHandler)
	group.POST("/:resource_id/touch", handler.TouchHandler)
	group.DELETE("/:resource_id", handler.DeleteHandler)
	return router
}

func testRecordStatus(resourceID uuid.UUID, status offlineDomain.Status) *offlineUseCase.RecordStatus {
	now := time.Now().UTC()
	return &offlineUseCase.RecordStatus{
		Record: &offlineDomain.OfflineRecord{
			ID:             uuid.Must(uuid.NewV7()),
			PrincipalID:    "student-1",
			ResourceID:     resourceID,
			DownloadedAt:   now,
			LastAccessedAt: now,
		},
		Status:    status,
		ExpiresAt: now.Add(7 * 24 * time.Hour),
	}
}

func TestOfflineHandler_RegisterDownload(t *testing.T) {
	t.Run("registers a download", func(t *testing.T) {
		uc := &mockOfflineUseCase{}
		router := setupOfflineRouter(uc)
		resourceID := uuid.Must(uuid.NewV7())

		uc.On("RegisterDownload", mock.Anything, "student-1", resourceID).
			Return(testRecordStatus(resourceID, offlineDomain.StatusActive), nil).
			Once()

		body, _ := json.Marshal(map[string]string{"resource_id": resourceID.String()})
		req := httptest.NewRequest(http.MethodPost, "/v1/offline-resources", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Principal-ID", "student-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), resourceID.String())
		assert.Contains(t, rec.Body.String(), `"status":"active"`)
	})

	t.Run("rejects a malformed resource id", func(t *testing.T) {
		uc := &mockOfflineUseCase{}
		router := setupOfflineRouter(uc)

		body, _ := json.Marshal(map[string]string{"resource_id": "not-a-uuid"})
		req := httptest.NewRequest(http.MethodPost, "/v1/offline-resources", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Principal-ID", "student-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("rejects a request without principal", func(t *testing.T) {
		uc := &mockOfflineUseCase{}
		router := setupOfflineRouter(uc)

		req := httptest.NewRequest(http.MethodPost, "/v1/offline-resources", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOfflineHandler_List(t *testing.T) {
	uc := &mockOfflineUseCase{}
	router := setupOfflineRouter(uc)
	resourceID := uuid.Must(uuid.NewV7())

	uc.On("List", mock.Anything, "student-1").
		Return([]*offlineUseCase.RecordStatus{
			testRecordStatus(resourceID, offlineDomain.StatusExpired),
		}, nil).
		Once()

	req := httptest.NewRequest(http.MethodGet, "/v1/offline-resources", nil)
	req.Header.Set("X-Principal-ID", "student-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"expired"`)
}

func TestOfflineHandler_Touch(t *testing.T) {
	uc := &mockOfflineUseCase{}
	router := setupOfflineRouter(uc)
	resourceID := uuid.Must(uuid.NewV7())

	uc.On("Touch", mock.Anything, "student-1", resourceID).
		Return(testRecordStatus(resourceID, offlineDomain.StatusActive), nil).
		Once()

	req := httptest.NewRequest(
		http.MethodPost,
		"/v1/offline-resources/"+resourceID.String()+"/touch",
		nil,
	)
	req.Header.Set("X-Principal-ID", "student-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestOfflineHandler_Delete(t *testing.T) {
	t.Run("deletes a record", func(t *testing.T) {
		uc := &mockOfflineUseCase{}
		router := setupOfflineRouter(uc)
		resourceID := uuid.Must(uuid.NewV7())

		uc.On("Delete", mock.Anything, "student-1", resourceID).Return(nil).Once()

		req := httptest.NewRequest(
			http.MethodDelete,
			"/v1/offline-resources/"+resourceID.String(),
			nil,
		)
		req.Header.Set("X-Principal-ID", "student-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("maps missing record to 404", func(t *testing.T) {
		uc := &mockOfflineUseCase{}
		router := setupOfflineRouter(uc)
		resourceID := uuid.Must(uuid.NewV7())

		uc.On("Delete", mock.Anything, "student-1", resourceID).
			Return(offlineDomain.ErrRecordNotFound).
			Once()

		req := httptest.NewRequest(
			http.MethodDelete,
			"/v1/offline-resources/"+resourceID.String(),
			nil,
		)
		req.Header.Set("X-Principal-ID", "student-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

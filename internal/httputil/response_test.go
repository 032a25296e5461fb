package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/eduvault/eduvault/internal/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleErrorGin(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not entitled maps to 403 with enrollment hint",
			err:        apperrors.Wrap(apperrors.ErrNotEntitled, "issue download token"),
			wantStatus: http.StatusForbidden,
			wantCode:   "not_entitled",
		},
		{
			name:       "token expired maps to 401",
			err:        apperrors.ErrTokenExpired,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "token_expired",
		},
		{
			name:       "token already used maps to 401",
			err:        apperrors.ErrTokenAlreadyUsed,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "token_already_used",
		},
		{
			name:       "token purpose mismatch maps to 401",
			err:        apperrors.ErrTokenPurposeMismatch,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "token_purpose_mismatch",
		},
		{
			name:       "not found maps to 404",
			err:        apperrors.Wrap(apperrors.ErrNotFound, "resource lookup"),
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "invalid input maps to 422",
			err:        apperrors.Wrap(apperrors.ErrInvalidInput, "purpose"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "invalid_input",
		},
		{
			name:       "unauthorized maps to 401",
			err:        apperrors.ErrUnauthorized,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "unauthorized",
		},
		{
			name:       "unknown error maps to 500 without detail",
			err:        apperrors.New("database exploded"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)

			HandleErrorGin(c, tt.err, nil)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Error)
			assert.NotEmpty(t, resp.Message)
			if tt.wantCode == "internal_error" {
				assert.NotContains(t, resp.Message, "database exploded")
			}
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)

		HandleErrorGin(c, nil, nil)

		assert.Empty(t, recorder.Body.Bytes())
	})
}

func TestDomainError(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{"not_entitled", apperrors.ErrNotEntitled},
		{"token_expired", apperrors.ErrTokenExpired},
		{"token_already_used", apperrors.ErrTokenAlreadyUsed},
		{"token_purpose_mismatch", apperrors.ErrTokenPurposeMismatch},
		{"not_found", apperrors.ErrNotFound},
		{"conflict", apperrors.ErrConflict},
		{"invalid_input", apperrors.ErrInvalidInput},
		{"unauthorized", apperrors.ErrUnauthorized},
		{"forbidden", apperrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.ErrorIs(t, DomainError(tt.code), tt.want)
		})
	}

	t.Run("round trips through HandleErrorGin codes", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)

		HandleErrorGin(c, apperrors.ErrTokenAlreadyUsed, nil)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.ErrorIs(t, DomainError(resp.Error), apperrors.ErrTokenAlreadyUsed)
	})

	t.Run("unknown code yields opaque error", func(t *testing.T) {
		err := DomainError("weird_code")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	})
}

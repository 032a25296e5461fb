// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/eduvault/eduvault/internal/errors"
)

// ErrorResponse represents a structured error response.
// Code values are stable: the offline client maps them back to domain errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MakeJSONResponse writes a JSON response with the given status code.
func MakeJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// HandleErrorGin maps domain errors to HTTP status codes and returns a JSON response using Gin.
// Every mapped failure carries an actionable message, never a generic "something went wrong".
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var statusCode int
	var errorResponse ErrorResponse

	switch {
	case apperrors.Is(err, apperrors.ErrNotEntitled):
		statusCode = http.StatusForbidden
		errorResponse = ErrorResponse{
			Error:   "not_entitled",
			Message: "You are not enrolled for this resource; enroll to gain access",
		}

	case apperrors.Is(err, apperrors.ErrTokenExpired):
		statusCode = http.StatusUnauthorized
		errorResponse = ErrorResponse{
			Error:   "token_expired",
			Message: "The access token has expired; request a fresh token",
		}

	case apperrors.Is(err, apperrors.ErrTokenAlreadyUsed):
		statusCode = http.StatusUnauthorized
		errorResponse = ErrorResponse{
			Error:   "token_already_used",
			Message: "The access token was already redeemed; request a fresh token",
		}

	case apperrors.Is(err, apperrors.ErrTokenPurposeMismatch):
		statusCode = http.StatusUnauthorized
		errorResponse = ErrorResponse{
			Error:   "token_purpose_mismatch",
			Message: "The access token cannot be used for this operation; request a token for the right purpose",
		}

	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		errorResponse = ErrorResponse{
			Error:   "not_found",
			Message: "The requested resource was not found",
		}

	case apperrors.Is(err, apperrors.ErrConflict):
		statusCode = http.StatusConflict
		errorResponse = ErrorResponse{
			Error:   "conflict",
			Message: "A conflict occurred with existing data",
		}

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusUnprocessableEntity
		errorResponse = ErrorResponse{
			Error:   "invalid_input",
			Message: err.Error(),
		}

	case apperrors.Is(err, apperrors.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		errorResponse = ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication is required",
		}

	case apperrors.Is(err, apperrors.ErrForbidden):
		statusCode = http.StatusForbidden
		errorResponse = ErrorResponse{
			Error:   "forbidden",
			Message: "You don't have permission to access this resource",
		}

	default:
		// For unknown/internal errors, don't expose details to the client
		statusCode = http.StatusInternalServerError
		errorResponse = ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		}
	}

	// Log the full error details (including wrapped errors)
	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", errorResponse.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, errorResponse)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters using Gin.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	errorResponse := ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	}

	c.JSON(http.StatusBadRequest, errorResponse)
}

// HandleValidationErrorGin writes a 422 Unprocessable Entity response for validation errors using Gin.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	errorResponse := ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	}

	c.JSON(http.StatusUnprocessableEntity, errorResponse)
}

// DomainError maps a stable wire error code back to its domain sentinel.
// Used by the offline client so server failures surface as the same typed
// errors the rest of the codebase handles.
func DomainError(code string) error {
	switch code {
	case "not_entitled":
		return apperrors.ErrNotEntitled
	case "token_expired":
		return apperrors.ErrTokenExpired
	case "token_already_used":
		return apperrors.ErrTokenAlreadyUsed
	case "token_purpose_mismatch":
		return apperrors.ErrTokenPurposeMismatch
	case "not_found":
		return apperrors.ErrNotFound
	case "conflict":
		return apperrors.ErrConflict
	case "invalid_input", "validation_error", "bad_request":
		return apperrors.ErrInvalidInput
	case "unauthorized":
		return apperrors.ErrUnauthorized
	case "forbidden":
		return apperrors.ErrForbidden
	default:
		return apperrors.New("server error: " + code)
	}
}

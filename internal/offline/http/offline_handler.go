// Package http provides HTTP handlers for the offline download registry.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	entitlementHTTP "github.com/eduvault/eduvault/internal/entitlement/http"
	apperrors "github.com/eduvault/eduvault/internal/errors"
	"github.com/eduvault/eduvault/internal/httputil"
	"github.com/eduvault/eduvault/internal/offline/http/dto"
	offlineUseCase "github.com/eduvault/eduvault/internal/offline/usecase"
	customValidation "github.com/eduvault/eduvault/internal/validation"
)

// OfflineHandler handles HTTP requests for offline record operations.
type OfflineHandler struct {
	offlineUseCase offlineUseCase.OfflineUseCase
	logger         *slog.Logger
}

// NewOfflineHandler creates a new offline handler with required dependencies.
func NewOfflineHandler(uc offlineUseCase.OfflineUseCase, logger *slog.Logger) *OfflineHandler {
	return &OfflineHandler{
		offlineUseCase: uc,
		logger:         logger,
	}
}

// principal extracts the authenticated principal or writes a 401.
func (h *OfflineHandler) principal(c *gin.Context) (string, bool) {
	principalID, ok := entitlementHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return "", false
	}
	return principalID, true
}

// resourceID parses the resource_id path parameter or writes a 422.
func (h *OfflineHandler) resourceID(c *gin.Context) (uuid.UUID, bool) {
	resourceID, err := uuid.Parse(c.Param("resource_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid resource_id format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return resourceID, true
}

// RegisterDownloadHandler records a completed download.
// POST /v1/offline-resources - requires a principal.
// Returns 201 Created with the record and its derived status.
func (h *OfflineHandler) RegisterDownloadHandler(c *gin.Context) {
	principalID, ok := h.principal(c)
	if !ok {
		return
	}

	var req dto.RegisterDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	resourceID, err := uuid.Parse(req.ResourceID)
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid resource_id format: must be a valid UUID"),
			h.logger)
		return
	}

	status, err := h.offlineUseCase.RegisterDownload(c.Request.Context(), principalID, resourceID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.NewOfflineResourceResponse(status))
}

// ListHandler returns all of the principal's offline records.
// GET /v1/offline-resources - requires a principal.
func (h *OfflineHandler) ListHandler(c *gin.Context) {
	principalID, ok := h.principal(c)
	if !ok {
		return
	}

	statuses, err := h.offlineUseCase.List(c.Request.Context(), principalID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewOfflineResourceListResponse(statuses))
}

// GetHandler returns one offline record with its derived status.
// GET /v1/offline-resources/:resource_id - requires a principal.
func (h *OfflineHandler) GetHandler(c *gin.Context) {
	principalID, ok := h.principal(c)
	if !ok {
		return
	}
	resourceID, ok := h.resourceID(c)
	if !ok {
		return
	}

	status, err := h.offlineUseCase.Get(c.Request.Context(), principalID, resourceID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewOfflineResourceResponse(status))
}

// TouchHandler records a playback access on the record.
// POST /v1/offline-resources/:resource_id/touch - requires a principal.
// Works on expired records too; expiry never blocks playback.
func (h *OfflineHandler) TouchHandler(c *gin.Context) {
	principalID, ok := h.principal(c)
	if !ok {
		return
	}
	resourceID, ok := h.resourceID(c)
	if !ok {
		return
	}

	status, err := h.offlineUseCase.Touch(c.Request.Context(), principalID, resourceID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewOfflineResourceResponse(status))
}

// DeleteHandler removes the offline record.
// DELETE /v1/offline-resources/:resource_id - requires a principal.
// Returns 204 No Content on success.
func (h *OfflineHandler) DeleteHandler(c *gin.Context) {
	principalID, ok := h.principal(c)
	if !ok {
		return
	}
	resourceID, ok := h.resourceID(c)
	if !ok {
		return
	}

	if err := h.offlineUseCase.Delete(c.Request.Context(), principalID, resourceID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

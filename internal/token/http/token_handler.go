// Package http provides HTTP handlers for token issuance and redemption.
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
	tokenDomain "github.com/eduvault/eduvault/internal/token/domain"
	"github.com/eduvault/eduvault/internal/token/http/dto"
	tokenUseCase "github.com/eduvault/eduvault/internal/token/usecase"
	customValidation "github.com/eduvault/eduvault/internal/validation"
)

// TokenHandler handles HTTP requests for token operations.
type TokenHandler struct {
	tokenUseCase tokenUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(uc tokenUseCase.TokenUseCase, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: uc,
		logger:       logger,
	}
}

// IssueDownloadTokenHandler issues a single-use download token.
// POST /v1/resources/:resource_id/download-token - requires a principal.
// Returns 201 Created with the token and its expiry.
func (h *TokenHandler) IssueDownloadTokenHandler(c *gin.Context) {
	h.issue(c, tokenDomain.PurposeDownload)
}

// IssueDecryptTokenHandler issues a single-use decrypt token.
// POST /v1/resources/:resource_id/decrypt-token - requires a principal.
// Returns 201 Created with the token and its expiry.
func (h *TokenHandler) IssueDecryptTokenHandler(c *gin.Context) {
	h.issue(c, tokenDomain.PurposeDecrypt)
}

func (h *TokenHandler) issue(c *gin.Context, purpose tokenDomain.Purpose) {
	principalID, ok := entitlementHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	resourceID, err := uuid.Parse(c.Param("resource_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid resource_id format: must be a valid UUID"),
			h.logger)
		return
	}

	issued, err := h.tokenUseCase.Issue(c.Request.Context(), principalID, resourceID, purpose)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.IssueTokenResponse{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
	})
}

// RedeemDownloadHandler burns a download token and streams the encrypted blob.
// POST /v1/downloads - the token itself is the credential.
// Returns 200 OK with the IV||ciphertext bytes as application/octet-stream.
func (h *TokenHandler) RedeemDownloadHandler(c *gin.Context) {
	var req dto.RedeemTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	blob, err := h.tokenUseCase.RedeemDownload(c.Request.Context(), req.Token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusOK, "application/octet-stream", blob)
}

// RedeemDecryptHandler burns a decrypt token and returns the access key.
// POST /v1/decrypt-keys - the token itself is the credential.
// Returns 200 OK with the per-resource access key.
func (h *TokenHandler) RedeemDecryptHandler(c *gin.Context) {
	var req dto.RedeemTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	accessKey, err := h.tokenUseCase.RedeemDecrypt(c.Request.Context(), req.Token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DecryptKeyResponse{AccessKey: accessKey})
}

package dto

import (
	validation "github.com/jellydator/validation"
	"github.com/jellydator/validation/is"
)

// RegisterDownloadRequest records a completed download for the principal.
type RegisterDownloadRequest struct {
	ResourceID string `json:"resource_id"`
}

// Validate checks if the register request is valid.
func (r *RegisterDownloadRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ResourceID,
			validation.Required,
			is.UUID,
		),
	)
}

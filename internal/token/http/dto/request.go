// Package dto provides data transfer objects for token HTTP handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/eduvault/eduvault/internal/validation"
)

// RedeemTokenRequest carries the single-use token being redeemed, for both
// the download and the decrypt-key endpoints.
type RedeemTokenRequest struct {
	Token string `json:"token"`
}

// Validate checks if the redeem request is valid.
func (r *RedeemTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
		),
	)
}

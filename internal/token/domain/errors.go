package domain

import (
	"github.com/eduvault/eduvault/internal/errors"
)

// Token errors.
var (
	// ErrTokenNotFound indicates no token matches the presented hash. Mapped to
	// the same wire error as other credential failures to prevent probing.
	ErrTokenNotFound = errors.Wrap(errors.ErrUnauthorized, "access token not found")

	// ErrInvalidPurpose indicates an unknown purpose value at issuance.
	ErrInvalidPurpose = errors.Wrap(errors.ErrInvalidInput, "invalid token purpose")
)

package domain

import (
	"github.com/eduvault/eduvault/internal/errors"
)

// Offline registry errors.
var (
	// ErrRecordNotFound indicates no offline record exists for the
	// (principal, resource) pair.
	ErrRecordNotFound = errors.Wrap(errors.ErrNotFound, "offline record not found")
)

package domain

import (
	"github.com/eduvault/eduvault/internal/errors"
)

// Catalog errors.
var (
	// ErrResourceNotFound indicates the catalog has no entry for the resource id.
	ErrResourceNotFound = errors.Wrap(errors.ErrNotFound, "resource not found")
)

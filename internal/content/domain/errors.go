package domain

import (
	"github.com/eduvault/eduvault/internal/errors"
)

// Content store errors.
var (
	// ErrBlobNotFound indicates no ciphertext has been produced for the resource yet.
	ErrBlobNotFound = errors.Wrap(errors.ErrNotFound, "encrypted blob not found")

	// ErrInvalidIVSize indicates an IV of the wrong fixed length.
	ErrInvalidIVSize = errors.New("invalid IV size")

	// ErrBlobTooShort indicates a blob shorter than the fixed IV prefix.
	ErrBlobTooShort = errors.New("encrypted blob too short")

	// ErrContentUnavailable indicates the plaintext source could not be read.
	ErrContentUnavailable = errors.Wrap(errors.ErrUnavailable, "content source unavailable")
)

// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers, and to actionable
// results by the offline lifecycle manager.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated principal doesn't have permission.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates a remote dependency could not be reached.
	// The caller may retry explicitly; nothing in this codebase retries on its own.
	ErrUnavailable = errors.New("unavailable")
)

// Access token errors. These stay distinguishable end to end so the client can
// tell "request a fresh token" apart from "start the enrollment flow".
var (
	// ErrNotEntitled indicates the principal has no entitlement for the resource.
	// Recoverable through enrollment, not through retry.
	ErrNotEntitled = errors.New("not entitled")

	// ErrTokenExpired indicates the access token passed its expiry window.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenAlreadyUsed indicates the single-use access token was already redeemed.
	ErrTokenAlreadyUsed = errors.New("token already used")

	// ErrTokenPurposeMismatch indicates a token was redeemed for the wrong purpose
	// (e.g., a download token presented for decryption material).
	ErrTokenPurposeMismatch = errors.New("token purpose mismatch")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

package domain

import (
	"github.com/eduvault/eduvault/internal/errors"
)

// Cryptographic errors.
var (
	// ErrDecryptionFailed indicates ciphertext authentication failed. Treat the
	// payload as corrupted; never fall back to partial plaintext.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrMasterSecretNotSet indicates MASTER_SECRET is not configured.
	ErrMasterSecretNotSet = errors.New("MASTER_SECRET environment variable not set")

	// ErrInvalidMasterSecretBase64 indicates the master secret is not valid base64.
	ErrInvalidMasterSecretBase64 = errors.New("invalid base64 in MASTER_SECRET")

	// ErrInvalidSecretSize indicates the master secret is not exactly 32 bytes.
	ErrInvalidSecretSize = errors.New("invalid master secret size")
)

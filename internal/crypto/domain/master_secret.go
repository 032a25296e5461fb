package domain

import (
	"encoding/base64"
	"fmt"
	"os"
)

// MasterSecret is the root secret the per-resource content keys derive from.
//
// The secret never leaves the server: clients only ever see per-resource access
// keys derived from it, and the derivation is one-way. It should be 32 random
// bytes, stored in a KMS in production or in the MASTER_SECRET environment
// variable for development and test environments.
type MasterSecret struct {
	Key []byte
}

// Close overwrites the secret material in memory.
func (m *MasterSecret) Close() {
	Zero(m.Key)
	m.Key = nil
}

// LoadMasterSecretFromEnv reads the master secret from the MASTER_SECRET
// environment variable. The value must be 32 bytes, base64 standard encoded.
func LoadMasterSecretFromEnv() (*MasterSecret, error) {
	raw := os.Getenv("MASTER_SECRET")
	if raw == "" {
		return nil, ErrMasterSecretNotSet
	}

	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMasterSecretBase64, err)
	}
	if len(key) != 32 {
		Zero(key)
		return nil, fmt.Errorf("%w: must be 32 bytes, got %d", ErrInvalidSecretSize, len(key))
	}

	return &MasterSecret{Key: key}, nil
}

// NewMasterSecret wraps already-decrypted secret material (e.g., from a KMS).
func NewMasterSecret(key []byte) (*MasterSecret, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: must be 32 bytes, got %d", ErrInvalidSecretSize, len(key))
	}
	return &MasterSecret{Key: key}, nil
}

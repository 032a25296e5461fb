// Package usecase exposes key derivation to the rest of the server.
package usecase

import (
	cryptoDomain "github.com/eduvault/eduvault/internal/crypto/domain"
	cryptoService "github.com/eduvault/eduvault/internal/crypto/service"
)

// KeyUseCase hands out per-resource key material derived from the master secret.
// The master secret itself never crosses this boundary.
type KeyUseCase interface {
	// AccessKey returns the per-resource access key string. This is the
	// decryption credential released to clients against a redeemed decrypt
	// token; the client derives the content key from it locally.
	AccessKey(resourceID string) string

	// ContentKey returns the symmetric content key for a resource. Callers own
	// the returned slice and must zero it as soon as the operation finishes.
	ContentKey(resourceID string) []byte
}

// keyUseCase implements KeyUseCase over an in-memory master secret.
type keyUseCase struct {
	masterSecret *cryptoDomain.MasterSecret
}

// NewKeyUseCase creates a KeyUseCase bound to the loaded master secret.
func NewKeyUseCase(masterSecret *cryptoDomain.MasterSecret) KeyUseCase {
	return &keyUseCase{masterSecret: masterSecret}
}

// AccessKey returns the per-resource access key string.
func (k *keyUseCase) AccessKey(resourceID string) string {
	return cryptoService.DeriveAccessKey(k.masterSecret.Key, resourceID)
}

// ContentKey returns the symmetric content key for a resource.
func (k *keyUseCase) ContentKey(resourceID string) []byte {
	accessKey := k.AccessKey(resourceID)
	return cryptoService.DeriveContentKey(accessKey)
}

package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/eduvault/eduvault/internal/crypto/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSService unwraps the KMS-protected master secret using gocloud.dev/secrets.
type KMSService interface {
	// LoadMasterSecret decrypts MASTER_SECRET_ENCRYPTED with the keeper at keyURI.
	// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
	LoadMasterSecret(ctx context.Context, keyURI string) (*cryptoDomain.MasterSecret, error)

	// EncryptMasterSecret wraps freshly generated secret material with the
	// keeper at keyURI, for the provisioning CLI.
	EncryptMasterSecret(ctx context.Context, keyURI string, key []byte) ([]byte, error)
}

// kmsService implements KMSService using gocloud.dev/secrets.
type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

// LoadMasterSecret opens a secrets.Keeper for the configured KMS provider and
// decrypts the base64 ciphertext stored in MASTER_SECRET_ENCRYPTED. The
// decrypted material must be exactly 32 bytes.
func (k *kmsService) LoadMasterSecret(
	ctx context.Context,
	keyURI string,
) (*cryptoDomain.MasterSecret, error) {
	raw := os.Getenv("MASTER_SECRET_ENCRYPTED")
	if raw == "" {
		return nil, cryptoDomain.ErrMasterSecretNotSet
	}

	ciphertext, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidMasterSecretBase64, err)
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer keeper.Close()

	key, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt master secret: %w", err)
	}

	return cryptoDomain.NewMasterSecret(key)
}

// EncryptMasterSecret wraps the secret material with the keeper at keyURI.
func (k *kmsService) EncryptMasterSecret(
	ctx context.Context,
	keyURI string,
	key []byte,
) ([]byte, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer keeper.Close()

	ciphertext, err := keeper.Encrypt(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt master secret: %w", err)
	}

	return ciphertext, nil
}

package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	cryptoDomain "github.com/eduvault/eduvault/internal/crypto/domain"
	cryptoService "github.com/eduvault/eduvault/internal/crypto/service"
)

// RunCreateMasterSecret generates a cryptographically secure 32-byte master
// secret for content key derivation and prints the environment configuration.
//
// Without a KMS key URI the secret is printed in plain base64 for development
// and test environments. With --kms-key-uri the secret is wrapped by the KMS
// keeper and only the ciphertext is printed; production deployments should
// always use a KMS provider (gcpkms://, awskms://, azurekeyvault://,
// hashivault://).
func RunCreateMasterSecret(ctx context.Context, kmsKeyURI string) error {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("failed to generate master secret: %w", err)
	}
	defer cryptoDomain.Zero(secret)

	if kmsKeyURI == "" {
		fmt.Println("# Master Secret Configuration (plain mode, development only)")
		fmt.Println("# Copy this environment variable to your .env file")
		fmt.Println()
		fmt.Printf("MASTER_SECRET=%q\n", base64.StdEncoding.EncodeToString(secret))
		return nil
	}

	ciphertext, err := cryptoService.NewKMSService().EncryptMasterSecret(ctx, kmsKeyURI, secret)
	if err != nil {
		return fmt.Errorf("failed to encrypt master secret with KMS: %w", err)
	}

	fmt.Println("# Master Secret Configuration (KMS mode)")
	fmt.Println("# Copy these environment variables to your .env file or secrets manager")
	fmt.Println()
	fmt.Printf("KMS_KEY_URI=%q\n", kmsKeyURI)
	fmt.Printf("MASTER_SECRET_ENCRYPTED=%q\n", base64.StdEncoding.EncodeToString(ciphertext))

	return nil
}

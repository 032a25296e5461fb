package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/eduvault/eduvault/internal/crypto/domain"
	cryptoService "github.com/eduvault/eduvault/internal/crypto/service"
	cryptoUsecase "github.com/eduvault/eduvault/internal/crypto/usecase"
)

// KMSService returns the KMS service for unwrapping the master secret.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// MasterSecret returns the server-side master secret.
func (c *Container) MasterSecret() (*cryptoDomain.MasterSecret, error) {
	var err error
	c.masterSecretInit.Do(func() {
		c.masterSecret, err = c.initMasterSecret()
		if err != nil {
			c.initErrors["masterSecret"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterSecret"]; exists {
		return nil, storedErr
	}
	return c.masterSecret, nil
}

// KeyUseCase returns the key derivation use case.
func (c *Container) KeyUseCase() (cryptoUsecase.KeyUseCase, error) {
	var err error
	c.keyUseCaseInit.Do(func() {
		c.keyUseCase, err = c.initKeyUseCase()
		if err != nil {
			c.initErrors["keyUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyUseCase"]; exists {
		return nil, storedErr
	}
	return c.keyUseCase, nil
}

// initMasterSecret loads the master secret, going through the KMS when a key
// URI is configured and falling back to the plain environment variable
// otherwise.
func (c *Container) initMasterSecret() (*cryptoDomain.MasterSecret, error) {
	if c.config.KMSKeyURI != "" {
		masterSecret, err := c.KMSService().LoadMasterSecret(context.Background(), c.config.KMSKeyURI)
		if err != nil {
			return nil, fmt.Errorf("failed to load master secret from KMS: %w", err)
		}
		return masterSecret, nil
	}

	masterSecret, err := cryptoDomain.LoadMasterSecretFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load master secret: %w", err)
	}
	return masterSecret, nil
}

// initKeyUseCase creates the key derivation use case over the master secret.
func (c *Container) initKeyUseCase() (cryptoUsecase.KeyUseCase, error) {
	masterSecret, err := c.MasterSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to get master secret for key use case: %w", err)
	}
	return cryptoUsecase.NewKeyUseCase(masterSecret), nil
}

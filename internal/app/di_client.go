package app

import (
	"fmt"

	apperrors "github.com/eduvault/eduvault/internal/errors"

	"github.com/eduvault/eduvault/internal/client/api"
	"github.com/eduvault/eduvault/internal/client/cache"
	"github.com/eduvault/eduvault/internal/client/lifecycle"
	"github.com/eduvault/eduvault/internal/client/playback"
)

// APIClient returns the HTTP client the offline device uses to talk to the
// server.
func (c *Container) APIClient() (*api.Client, error) {
	var err error
	c.apiClientInit.Do(func() {
		c.apiClient, err = c.initAPIClient()
		if err != nil {
			c.initErrors["apiClient"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["apiClient"]; exists {
		return nil, storedErr
	}
	return c.apiClient, nil
}

// CacheStore returns the local encrypted cache.
func (c *Container) CacheStore() (*cache.Store, error) {
	var err error
	c.cacheStoreInit.Do(func() {
		c.cacheStore, err = cache.Open(c.config.CacheDir)
		if err != nil {
			c.initErrors["cacheStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cacheStore"]; exists {
		return nil, storedErr
	}
	return c.cacheStore, nil
}

// PlaybackEngine returns the client-side decryption engine.
func (c *Container) PlaybackEngine() *playback.Engine {
	c.playbackEngineInit.Do(func() {
		c.playbackEngine = playback.NewEngine()
	})
	return c.playbackEngine
}

// LifecycleManager returns the client-side lifecycle manager.
func (c *Container) LifecycleManager() (*lifecycle.Manager, error) {
	var err error
	c.lifecycleManagerInit.Do(func() {
		c.lifecycleManager, err = c.initLifecycleManager()
		if err != nil {
			c.initErrors["lifecycleManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["lifecycleManager"]; exists {
		return nil, storedErr
	}
	return c.lifecycleManager, nil
}

// initAPIClient creates the API client. A principal id is required: the
// device acts on behalf of exactly one authenticated LMS session.
func (c *Container) initAPIClient() (*api.Client, error) {
	if c.config.PrincipalID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "PRINCIPAL_ID is not set")
	}
	return api.NewClient(c.config.ServerBaseURL, c.config.PrincipalID), nil
}

// initLifecycleManager creates the lifecycle manager with all its dependencies.
func (c *Container) initLifecycleManager() (*lifecycle.Manager, error) {
	apiClient, err := c.APIClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get api client for lifecycle manager: %w", err)
	}

	cacheStore, err := c.CacheStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get cache store for lifecycle manager: %w", err)
	}

	return lifecycle.NewManager(
		apiClient,
		cacheStore,
		c.PlaybackEngine(),
		c.config.OfflineRetention,
		c.Logger(),
	), nil
}

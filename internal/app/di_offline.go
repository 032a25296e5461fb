package app

import (
	"fmt"

	offlineHTTP "github.com/eduvault/eduvault/internal/offline/http"
	offlineRepository "github.com/eduvault/eduvault/internal/offline/repository"
	offlineUsecase "github.com/eduvault/eduvault/internal/offline/usecase"
)

// OfflineRepository returns the offline record repository based on the
// database driver.
func (c *Container) OfflineRepository() (offlineUsecase.OfflineRepository, error) {
	var err error
	c.offlineRepoInit.Do(func() {
		c.offlineRepo, err = c.initOfflineRepository()
		if err != nil {
			c.initErrors["offlineRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["offlineRepo"]; exists {
		return nil, storedErr
	}
	return c.offlineRepo, nil
}

// OfflineUseCase returns the offline registry use case.
func (c *Container) OfflineUseCase() (offlineUsecase.OfflineUseCase, error) {
	var err error
	c.offlineUseCaseInit.Do(func() {
		c.offlineUseCase, err = c.initOfflineUseCase()
		if err != nil {
			c.initErrors["offlineUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["offlineUseCase"]; exists {
		return nil, storedErr
	}
	return c.offlineUseCase, nil
}

// OfflineHandler returns the offline registry HTTP handler.
func (c *Container) OfflineHandler() (*offlineHTTP.OfflineHandler, error) {
	var err error
	c.offlineHandlerInit.Do(func() {
		c.offlineHandler, err = c.initOfflineHandler()
		if err != nil {
			c.initErrors["offlineHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["offlineHandler"]; exists {
		return nil, storedErr
	}
	return c.offlineHandler, nil
}

// initOfflineRepository creates the offline repository based on the database driver.
func (c *Container) initOfflineRepository() (offlineUsecase.OfflineRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for offline repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return offlineRepository.NewPostgreSQLOfflineRepository(db), nil
	case "mysql":
		return offlineRepository.NewMySQLOfflineRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initOfflineUseCase creates the offline use case, wrapped with metrics
// instrumentation when metrics are enabled.
func (c *Container) initOfflineUseCase() (offlineUsecase.OfflineUseCase, error) {
	offlineRepo, err := c.OfflineRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get offline repository for offline use case: %w", err)
	}

	useCase := offlineUsecase.NewOfflineUseCase(c.config, offlineRepo)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for offline use case: %w", err)
		}
		useCase = offlineUsecase.NewOfflineUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

// initOfflineHandler creates the offline HTTP handler.
func (c *Container) initOfflineHandler() (*offlineHTTP.OfflineHandler, error) {
	useCase, err := c.OfflineUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get offline use case for offline handler: %w", err)
	}
	return offlineHTTP.NewOfflineHandler(useCase, c.Logger()), nil
}

package app

import (
	"fmt"

	catalogRepository "github.com/eduvault/eduvault/internal/catalog/repository"
	catalogUsecase "github.com/eduvault/eduvault/internal/catalog/usecase"
	entitlementRepository "github.com/eduvault/eduvault/internal/entitlement/repository"
	entitlementUsecase "github.com/eduvault/eduvault/internal/entitlement/usecase"
)

// ResourceRepository returns the catalog repository based on the database
// driver.
func (c *Container) ResourceRepository() (catalogUsecase.ResourceRepository, error) {
	var err error
	c.resourceRepoInit.Do(func() {
		c.resourceRepo, err = c.initResourceRepository()
		if err != nil {
			c.initErrors["resourceRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["resourceRepo"]; exists {
		return nil, storedErr
	}
	return c.resourceRepo, nil
}

// ResourceUseCase returns the catalog resolution use case.
func (c *Container) ResourceUseCase() (catalogUsecase.ResourceUseCase, error) {
	var err error
	c.resourceUseCaseInit.Do(func() {
		c.resourceUseCase, err = c.initResourceUseCase()
		if err != nil {
			c.initErrors["resourceUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["resourceUseCase"]; exists {
		return nil, storedErr
	}
	return c.resourceUseCase, nil
}

// EntitlementRepository returns the entitlement repository based on the
// database driver.
func (c *Container) EntitlementRepository() (entitlementUsecase.EntitlementRepository, error) {
	var err error
	c.entitlementRepoInit.Do(func() {
		c.entitlementRepo, err = c.initEntitlementRepository()
		if err != nil {
			c.initErrors["entitlementRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["entitlementRepo"]; exists {
		return nil, storedErr
	}
	return c.entitlementRepo, nil
}

// EntitlementChecker returns the entitlement gate.
func (c *Container) EntitlementChecker() (entitlementUsecase.Checker, error) {
	var err error
	c.entitlementCheckerInit.Do(func() {
		c.entitlementChecker, err = c.initEntitlementChecker()
		if err != nil {
			c.initErrors["entitlementChecker"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["entitlementChecker"]; exists {
		return nil, storedErr
	}
	return c.entitlementChecker, nil
}

// Registrar returns the provisioning use case used by the admin CLI.
func (c *Container) Registrar() (catalogUsecase.Registrar, error) {
	var err error
	c.registrarInit.Do(func() {
		c.registrar, err = c.initRegistrar()
		if err != nil {
			c.initErrors["registrar"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["registrar"]; exists {
		return nil, storedErr
	}
	return c.registrar, nil
}

// initResourceRepository creates the catalog repository based on the database driver.
func (c *Container) initResourceRepository() (catalogUsecase.ResourceRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for resource repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return catalogRepository.NewPostgreSQLResourceRepository(db), nil
	case "mysql":
		return catalogRepository.NewMySQLResourceRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initResourceUseCase creates the catalog resolution use case.
func (c *Container) initResourceUseCase() (catalogUsecase.ResourceUseCase, error) {
	resourceRepo, err := c.ResourceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get resource repository for resource use case: %w", err)
	}
	return catalogUsecase.NewResourceUseCase(resourceRepo), nil
}

// initEntitlementRepository creates the entitlement repository based on the database driver.
func (c *Container) initEntitlementRepository() (entitlementUsecase.EntitlementRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for entitlement repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return entitlementRepository.NewPostgreSQLEntitlementRepository(db), nil
	case "mysql":
		return entitlementRepository.NewMySQLEntitlementRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initEntitlementChecker creates the entitlement gate.
func (c *Container) initEntitlementChecker() (entitlementUsecase.Checker, error) {
	entitlementRepo, err := c.EntitlementRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get entitlement repository for checker: %w", err)
	}
	return entitlementUsecase.NewChecker(entitlementRepo), nil
}

// initRegistrar creates the provisioning use case with all its dependencies.
func (c *Container) initRegistrar() (catalogUsecase.Registrar, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for registrar: %w", err)
	}

	resourceRepo, err := c.ResourceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get resource repository for registrar: %w", err)
	}

	entitlementRepo, err := c.EntitlementRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get entitlement repository for registrar: %w", err)
	}

	return catalogUsecase.NewRegistrar(txManager, resourceRepo, entitlementRepo), nil
}

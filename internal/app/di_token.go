package app

import (
	"fmt"

	tokenHTTP "github.com/eduvault/eduvault/internal/token/http"
	tokenRepository "github.com/eduvault/eduvault/internal/token/repository"
	tokenService "github.com/eduvault/eduvault/internal/token/service"
	tokenUsecase "github.com/eduvault/eduvault/internal/token/usecase"
)

// TokenRepository returns the access token repository based on the database
// driver.
func (c *Container) TokenRepository() (tokenUsecase.TokenRepository, error) {
	var err error
	c.tokenRepoInit.Do(func() {
		c.tokenRepo, err = c.initTokenRepository()
		if err != nil {
			c.initErrors["tokenRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenRepo"]; exists {
		return nil, storedErr
	}
	return c.tokenRepo, nil
}

// TokenUseCase returns the token issue/redeem use case.
func (c *Container) TokenUseCase() (tokenUsecase.TokenUseCase, error) {
	var err error
	c.tokenUseCaseInit.Do(func() {
		c.tokenUseCase, err = c.initTokenUseCase()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

// TokenHandler returns the token HTTP handler.
func (c *Container) TokenHandler() (*tokenHTTP.TokenHandler, error) {
	var err error
	c.tokenHandlerInit.Do(func() {
		c.tokenHandler, err = c.initTokenHandler()
		if err != nil {
			c.initErrors["tokenHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenHandler"]; exists {
		return nil, storedErr
	}
	return c.tokenHandler, nil
}

// initTokenRepository creates the token repository based on the database driver.
func (c *Container) initTokenRepository() (tokenUsecase.TokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for token repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return tokenRepository.NewPostgreSQLTokenRepository(db), nil
	case "mysql":
		return tokenRepository.NewMySQLTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTokenUseCase creates the token use case with all its dependencies,
// wrapped with metrics instrumentation when metrics are enabled.
func (c *Container) initTokenUseCase() (tokenUsecase.TokenUseCase, error) {
	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for token use case: %w", err)
	}

	checker, err := c.EntitlementChecker()
	if err != nil {
		return nil, fmt.Errorf("failed to get entitlement checker for token use case: %w", err)
	}

	resourceUseCase, err := c.ResourceUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get resource use case for token use case: %w", err)
	}

	contentUseCase, err := c.ContentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get content use case for token use case: %w", err)
	}

	keyUseCase, err := c.KeyUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get key use case for token use case: %w", err)
	}

	useCase := tokenUsecase.NewTokenUseCase(
		c.config,
		tokenRepo,
		tokenService.NewTokenService(),
		checker,
		resourceUseCase,
		contentUseCase,
		keyUseCase,
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
		}
		useCase = tokenUsecase.NewTokenUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

// initTokenHandler creates the token HTTP handler.
func (c *Container) initTokenHandler() (*tokenHTTP.TokenHandler, error) {
	useCase, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for token handler: %w", err)
	}
	return tokenHTTP.NewTokenHandler(useCase, c.Logger()), nil
}

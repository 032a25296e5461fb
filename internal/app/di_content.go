package app

import (
	"fmt"

	contentRepository "github.com/eduvault/eduvault/internal/content/repository"
	contentService "github.com/eduvault/eduvault/internal/content/service"
	contentUsecase "github.com/eduvault/eduvault/internal/content/usecase"
)

// BlobRepository returns the encrypted blob repository based on the database
// driver.
func (c *Container) BlobRepository() (contentUsecase.BlobRepository, error) {
	var err error
	c.blobRepoInit.Do(func() {
		c.blobRepo, err = c.initBlobRepository()
		if err != nil {
			c.initErrors["blobRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["blobRepo"]; exists {
		return nil, storedErr
	}
	return c.blobRepo, nil
}

// ContentSource returns the origin the plaintext assets are fetched from.
func (c *Container) ContentSource() contentService.ContentSource {
	c.contentSourceInit.Do(func() {
		c.contentSource = contentService.NewOriginContentSource(c.config.ContentDir)
	})
	return c.contentSource
}

// ContentUseCase returns the encrypt-once content use case.
func (c *Container) ContentUseCase() (contentUsecase.ContentUseCase, error) {
	var err error
	c.contentUseCaseInit.Do(func() {
		c.contentUseCase, err = c.initContentUseCase()
		if err != nil {
			c.initErrors["contentUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["contentUseCase"]; exists {
		return nil, storedErr
	}
	return c.contentUseCase, nil
}

// initBlobRepository creates the blob repository based on the database driver.
func (c *Container) initBlobRepository() (contentUsecase.BlobRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for blob repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return contentRepository.NewPostgreSQLBlobRepository(db), nil
	case "mysql":
		return contentRepository.NewMySQLBlobRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initContentUseCase creates the content use case with all its dependencies.
func (c *Container) initContentUseCase() (contentUsecase.ContentUseCase, error) {
	blobRepo, err := c.BlobRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get blob repository for content use case: %w", err)
	}

	resourceUseCase, err := c.ResourceUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get resource use case for content use case: %w", err)
	}

	keyUseCase, err := c.KeyUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get key use case for content use case: %w", err)
	}

	return contentUsecase.NewContentUseCase(
		blobRepo,
		resourceUseCase,
		keyUseCase,
		contentService.NewContentCipher(),
		c.ContentSource(),
		c.Logger(),
	), nil
}

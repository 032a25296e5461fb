package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	catalogUsecase "github.com/eduvault/eduvault/internal/catalog/usecase"
	contentDomain "github.com/eduvault/eduvault/internal/content/domain"
	contentService "github.com/eduvault/eduvault/internal/content/service"
	cryptoDomain "github.com/eduvault/eduvault/internal/crypto/domain"
	cryptoUsecase "github.com/eduvault/eduvault/internal/crypto/usecase"
	apperrors "github.com/eduvault/eduvault/internal/errors"
)

// contentUseCase memoizes encryption: the first request for a resource fetches
// the plaintext from the origin, seals it and persists the blob; every later
// request is a plain read. Concurrent first requests for the same resource are
// collapsed into a single encryption.
type contentUseCase struct {
	blobRepo     BlobRepository
	resourceUC   catalogUsecase.ResourceUseCase
	keyUC        cryptoUsecase.KeyUseCase
	cipher       *contentService.ContentCipher
	source       contentService.ContentSource
	encryptGroup singleflight.Group
	logger       *slog.Logger
}

// NewContentUseCase creates a new ContentUseCase.
func NewContentUseCase(
	blobRepo BlobRepository,
	resourceUC catalogUsecase.ResourceUseCase,
	keyUC cryptoUsecase.KeyUseCase,
	cipher *contentService.ContentCipher,
	source contentService.ContentSource,
	logger *slog.Logger,
) ContentUseCase {
	return &contentUseCase{
		blobRepo:   blobRepo,
		resourceUC: resourceUC,
		keyUC:      keyUC,
		cipher:     cipher,
		source:     source,
		logger:     logger,
	}
}

// GetEncryptedContent returns the encrypted blob for a resource.
func (c *contentUseCase) GetEncryptedContent(
	ctx context.Context,
	resourceID uuid.UUID,
) (contentDomain.EncryptedBlob, error) {
	blob, err := c.blobRepo.Get(ctx, resourceID)
	if err == nil {
		return blob, nil
	}
	if !errors.Is(err, contentDomain.ErrBlobNotFound) {
		return nil, err
	}

	result, err, _ := c.encryptGroup.Do(resourceID.String(), func() (any, error) {
		return c.encryptOnce(ctx, resourceID)
	})
	if err != nil {
		return nil, err
	}
	return result.(contentDomain.EncryptedBlob), nil
}

// encryptOnce performs the fetch-seal-persist sequence for a resource. The
// persisted row is the source of truth: if another server instance raced us,
// the re-read after Create returns that instance's bytes instead of ours.
func (c *contentUseCase) encryptOnce(
	ctx context.Context,
	resourceID uuid.UUID,
) (contentDomain.EncryptedBlob, error) {
	resource, err := c.resourceUC.Resolve(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	plaintext, err := c.source.Fetch(ctx, resource.URL)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(plaintext)

	contentKey := c.keyUC.ContentKey(resourceID.String())
	defer cryptoDomain.Zero(contentKey)

	blob, err := c.cipher.Seal(plaintext, contentKey)
	if err != nil {
		return nil, err
	}

	if err := c.blobRepo.Create(ctx, resourceID, blob); err != nil {
		return nil, err
	}

	stored, err := c.blobRepo.Get(ctx, resourceID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read back encrypted blob")
	}

	c.logger.InfoContext(ctx, "resource encrypted",
		slog.String("resource_id", resourceID.String()),
		slog.Int("blob_size_bytes", len(stored)),
	)
	return stored, nil
}

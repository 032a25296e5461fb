// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/google/uuid"

	"github.com/eduvault/eduvault/internal/app"
	catalogDomain "github.com/eduvault/eduvault/internal/catalog/domain"
	apperrors "github.com/eduvault/eduvault/internal/errors"
)

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// parseResourceType converts a CLI type string to a catalog ResourceType.
func parseResourceType(resourceType string) (catalogDomain.ResourceType, error) {
	switch resourceType {
	case "video":
		return catalogDomain.ResourceTypeVideo, nil
	case "audio":
		return catalogDomain.ResourceTypeAudio, nil
	case "document":
		return catalogDomain.ResourceTypeDocument, nil
	default:
		return "", fmt.Errorf(
			"invalid resource type: %s (valid options: video, audio, document)",
			resourceType,
		)
	}
}

// parseOptionalUUID parses a UUID flag that may be empty.
func parseOptionalUUID(value, name string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("%s must be a valid uuid", name))
	}
	return &id, nil
}

// parseRequiredUUID parses a UUID argument that must be present.
func parseRequiredUUID(value, name string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("%s is required", name))
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("%s must be a valid uuid", name))
	}
	return id, nil
}

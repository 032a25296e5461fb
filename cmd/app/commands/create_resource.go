package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eduvault/eduvault/internal/app"
	catalogUsecase "github.com/eduvault/eduvault/internal/catalog/usecase"
	"github.com/eduvault/eduvault/internal/config"
)

// CreateResourceOptions carries the create-resource command flags.
type CreateResourceOptions struct {
	URL               string
	Title             string
	Type              string
	FileSizeBytes     int
	CourseID          string
	ModuleID          string
	GrantPrincipalIDs []string
}

// RunCreateResource registers a protected resource in the catalog, optionally
// granting the listed principals direct access in the same transaction.
//
// Requirements: Database must be migrated and accessible.
func RunCreateResource(ctx context.Context, opts CreateResourceOptions) error {
	resourceType, err := parseResourceType(opts.Type)
	if err != nil {
		return err
	}

	courseID, err := parseOptionalUUID(opts.CourseID, "course-id")
	if err != nil {
		return err
	}

	moduleID, err := parseOptionalUUID(opts.ModuleID, "module-id")
	if err != nil {
		return err
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	registrar, err := container.Registrar()
	if err != nil {
		return fmt.Errorf("failed to initialize registrar: %w", err)
	}

	resource, err := registrar.CreateResource(ctx, catalogUsecase.CreateResourceInput{
		URL:               opts.URL,
		Type:              resourceType,
		Title:             opts.Title,
		FileSizeBytes:     int64(opts.FileSizeBytes),
		CourseID:          courseID,
		ModuleID:          moduleID,
		GrantPrincipalIDs: opts.GrantPrincipalIDs,
	})
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	logger.Info("resource created",
		slog.String("resource_id", resource.ID.String()),
		slog.String("title", resource.Title),
		slog.Int("grants", len(opts.GrantPrincipalIDs)),
	)

	fmt.Printf("Created resource %s (%s)\n", resource.ID, resource.Title)
	return nil
}

package commands

import (
	"context"
	"fmt"

	"github.com/eduvault/eduvault/internal/app"
	"github.com/eduvault/eduvault/internal/config"
	apperrors "github.com/eduvault/eduvault/internal/errors"
)

// RunGrantAccess grants a principal access to one resource or to a whole
// course. Exactly one of resourceID and courseID must be provided.
//
// Requirements: Database must be migrated and accessible.
func RunGrantAccess(ctx context.Context, principalID, resourceID, courseID string) error {
	if (resourceID == "") == (courseID == "") {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "exactly one of --resource-id and --course-id is required")
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	registrar, err := container.Registrar()
	if err != nil {
		return fmt.Errorf("failed to initialize registrar: %w", err)
	}

	if resourceID != "" {
		id, err := parseRequiredUUID(resourceID, "resource-id")
		if err != nil {
			return err
		}
		grant, err := registrar.GrantResourceAccess(ctx, principalID, id)
		if err != nil {
			return fmt.Errorf("failed to grant resource access: %w", err)
		}
		fmt.Printf("Granted %s access to resource %s (grant %s)\n", principalID, id, grant.ID)
		return nil
	}

	id, err := parseRequiredUUID(courseID, "course-id")
	if err != nil {
		return err
	}
	grant, err := registrar.GrantCourseAccess(ctx, principalID, id)
	if err != nil {
		return fmt.Errorf("failed to grant course access: %w", err)
	}
	fmt.Printf("Granted %s access to course %s (grant %s)\n", principalID, id, grant.ID)
	return nil
}

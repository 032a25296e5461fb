package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eduvault/eduvault/internal/app"
	"github.com/eduvault/eduvault/internal/config"
)

// RunCleanExpiredTokens deletes access tokens that expired more than the
// specified number of hours ago. Tokens are single-use and short-lived, so
// the table only grows; this is the janitor.
//
// Requirements: Database must be migrated and accessible.
func RunCleanExpiredTokens(ctx context.Context, hours int) error {
	if hours < 0 {
		return fmt.Errorf("hours must be a positive number, got: %d", hours)
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	logger.Info("cleaning expired tokens", slog.Int("hours", hours))

	defer closeContainer(container, logger)

	tokenUseCase, err := container.TokenUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize token use case: %w", err)
	}

	count, err := tokenUseCase.CleanupExpired(ctx, time.Duration(hours)*time.Hour)
	if err != nil {
		return fmt.Errorf("failed to cleanup expired tokens: %w", err)
	}

	logger.Info("cleanup completed", slog.Int64("count", count))
	fmt.Printf("Deleted %d expired token(s) older than %d hour(s)\n", count, hours)
	return nil
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/eduvault/eduvault/internal/app"
	"github.com/eduvault/eduvault/internal/client/lifecycle"
	"github.com/eduvault/eduvault/internal/client/playback"
	"github.com/eduvault/eduvault/internal/config"
)

// DownloadOptions carries the client download command flags.
type DownloadOptions struct {
	Title         string
	Type          string
	FileSizeBytes int
}

// RunClientDownload downloads a resource into the local encrypted cache and
// registers the download with the server.
//
// Requirements: SERVER_BASE_URL and PRINCIPAL_ID must be configured.
func RunClientDownload(ctx context.Context, resourceID string, opts DownloadOptions) error {
	if _, err := parseRequiredUUID(resourceID, "resource-id"); err != nil {
		return err
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	manager, err := container.LifecycleManager()
	if err != nil {
		return fmt.Errorf("failed to initialize lifecycle manager: %w", err)
	}

	resource, err := manager.Download(ctx, resourceID, lifecycle.ResourceMetadata{
		Title:         opts.Title,
		ResourceType:  opts.Type,
		FileSizeBytes: int64(opts.FileSizeBytes),
	})
	if err != nil {
		return fmt.Errorf("failed to download resource: %w", err)
	}

	logger.Info("download complete",
		slog.String("resource_id", resourceID),
		slog.Time("expires_at", resource.Metadata.ExpiresAt),
	)

	fmt.Printf("Downloaded %s, available offline until %s\n",
		resourceID, resource.Metadata.ExpiresAt.Format("2006-01-02 15:04"))
	return nil
}

// RunClientPlay decrypts a cached resource and streams the plaintext to the
// output target: "-" for stdout, anything else is opened as a file path
// (typically a fifo feeding a local player).
func RunClientPlay(ctx context.Context, resourceID, output string) error {
	if _, err := parseRequiredUUID(resourceID, "resource-id"); err != nil {
		return err
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	manager, err := container.LifecycleManager()
	if err != nil {
		return fmt.Errorf("failed to initialize lifecycle manager: %w", err)
	}

	sink := playback.WriterSink{W: os.Stdout}
	if output != "-" {
		file, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open output: %w", err)
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil {
				logger.Error("failed to close output", slog.Any("error", closeErr))
			}
		}()
		sink = playback.WriterSink{W: file}
	}

	if err := manager.Play(ctx, resourceID, sink); err != nil {
		return fmt.Errorf("failed to play resource: %w", err)
	}

	return nil
}

// RunClientList prints every cached resource with its derived offline status.
func RunClientList(ctx context.Context) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	manager, err := container.LifecycleManager()
	if err != nil {
		return fmt.Errorf("failed to initialize lifecycle manager: %w", err)
	}

	resources, err := manager.ListCachedResources()
	if err != nil {
		return fmt.Errorf("failed to list cached resources: %w", err)
	}

	if len(resources) == 0 {
		fmt.Println("No cached resources")
		return nil
	}

	for _, resource := range resources {
		fmt.Printf("%s  %-8s  %-32s  expires %s\n",
			resource.Metadata.ResourceID,
			resource.Status,
			resource.Metadata.Title,
			resource.Metadata.ExpiresAt.Format("2006-01-02 15:04"),
		)
	}
	return nil
}

// RunClientDelete removes a resource from the local cache and the server
// registry. A partial failure names the side that still needs cleanup so the
// command can be retried.
func RunClientDelete(ctx context.Context, resourceID string) error {
	if _, err := parseRequiredUUID(resourceID, "resource-id"); err != nil {
		return err
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	manager, err := container.LifecycleManager()
	if err != nil {
		return fmt.Errorf("failed to initialize lifecycle manager: %w", err)
	}

	if err := manager.Delete(ctx, resourceID); err != nil {
		var partial *lifecycle.PartialDeleteError
		if errors.As(err, &partial) {
			return fmt.Errorf("delete incomplete, retry to finish: %w", partial)
		}
		return fmt.Errorf("failed to delete resource: %w", err)
	}

	fmt.Printf("Deleted %s\n", resourceID)
	return nil
}

// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/eduvault/eduvault/cmd/app/commands"
)

var version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "eduvault",
		Usage:   "Secure offline resource access for learning content",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "create-master-secret",
				Usage: "Generate a new master secret for content key derivation",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "kms-key-uri",
						Usage: "KMS key URI used to wrap the secret (omit to print it in plain base64)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateMasterSecret(ctx, cmd.String("kms-key-uri"))
				},
			},
			{
				Name:  "create-resource",
				Usage: "Register a protected resource in the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "url",
						Required: true,
						Usage:    "Origin URL or content-dir relative path of the plaintext asset",
					},
					&cli.StringFlag{
						Name:     "title",
						Required: true,
						Usage:    "Human-readable resource title",
					},
					&cli.StringFlag{
						Name:  "type",
						Value: "video",
						Usage: "Resource type: video, audio, or document",
					},
					&cli.IntFlag{
						Name:  "size",
						Usage: "File size in bytes",
					},
					&cli.StringFlag{
						Name:  "course-id",
						Usage: "Course the resource belongs to (UUID)",
					},
					&cli.StringFlag{
						Name:  "module-id",
						Usage: "Module the resource belongs to (UUID)",
					},
					&cli.StringSliceFlag{
						Name:  "grant",
						Usage: "Principal id to grant direct access (repeatable)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateResource(ctx, commands.CreateResourceOptions{
						URL:               cmd.String("url"),
						Title:             cmd.String("title"),
						Type:              cmd.String("type"),
						FileSizeBytes:     cmd.Int("size"),
						CourseID:          cmd.String("course-id"),
						ModuleID:          cmd.String("module-id"),
						GrantPrincipalIDs: cmd.StringSlice("grant"),
					})
				},
			},
			{
				Name:  "grant-access",
				Usage: "Grant a principal access to a resource or a course",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "principal",
						Required: true,
						Usage:    "Principal id receiving the grant",
					},
					&cli.StringFlag{
						Name:  "resource-id",
						Usage: "Resource to grant (UUID, mutually exclusive with --course-id)",
					},
					&cli.StringFlag{
						Name:  "course-id",
						Usage: "Course to grant (UUID, mutually exclusive with --resource-id)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunGrantAccess(
						ctx,
						cmd.String("principal"),
						cmd.String("resource-id"),
						cmd.String("course-id"),
					)
				},
			},
			{
				Name:  "clean-expired-tokens",
				Usage: "Delete access tokens that expired more than the given number of hours ago",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "hours",
						Value: 24,
						Usage: "Delete tokens expired longer than this many hours",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCleanExpiredTokens(ctx, cmd.Int("hours"))
				},
			},
			{
				Name:  "client",
				Usage: "Offline client operations against the local encrypted cache",
				Commands: []*cli.Command{
					{
						Name:      "download",
						Usage:     "Download a resource into the local encrypted cache",
						ArgsUsage: "<resource-id>",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "title",
								Usage: "Resource title recorded in the cache",
							},
							&cli.StringFlag{
								Name:  "type",
								Value: "video",
								Usage: "Resource type recorded in the cache",
							},
							&cli.IntFlag{
								Name:  "size",
								Usage: "File size in bytes recorded in the cache",
							},
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							return commands.RunClientDownload(ctx, cmd.Args().First(), commands.DownloadOptions{
								Title:         cmd.String("title"),
								Type:          cmd.String("type"),
								FileSizeBytes: cmd.Int("size"),
							})
						},
					},
					{
						Name:      "play",
						Usage:     "Decrypt a cached resource and stream it to a sink",
						ArgsUsage: "<resource-id>",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "output",
								Value: "-",
								Usage: "Destination: '-' for stdout or a pipe path",
							},
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							return commands.RunClientPlay(ctx, cmd.Args().First(), cmd.String("output"))
						},
					},
					{
						Name:  "list",
						Usage: "List cached resources with their offline status",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							return commands.RunClientList(ctx)
						},
					},
					{
						Name:      "delete",
						Usage:     "Delete a resource from the cache and the server registry",
						ArgsUsage: "<resource-id>",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							return commands.RunClientDelete(ctx, cmd.Args().First())
						},
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

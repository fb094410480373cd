// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/cmd/app/commands"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/app"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/config"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Access control layer for the document viewer",
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
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "down",
						Usage: "Roll back all migrations instead of applying them",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations(cmd.Bool("down"))
				},
			},
			{
				Name:  "set-passphrase",
				Usage: "Set the shared admin passphrase",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "passphrase",
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "New passphrase (32-128 chars, [0-9a-zA-Z_-])",
					},
					&cli.StringFlag{
						Name:    "updated-by",
						Aliases: []string{"u"},
						Value:   "cli",
						Usage:   "Identity recorded in the change history",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container, logger *slog.Logger) error {
						credentials, err := container.CredentialUseCase()
						if err != nil {
							return err
						}
						return commands.RunSetPassphrase(
							ctx, credentials, logger, os.Stdout,
							cmd.String("passphrase"), cmd.String("updated-by"),
						)
					})
				},
			},
			{
				Name:  "check-passphrase",
				Usage: "Verify a passphrase against the stored credential",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "passphrase",
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "Passphrase to verify",
					},
					formatFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container, logger *slog.Logger) error {
						credentials, err := container.CredentialUseCase()
						if err != nil {
							return err
						}
						return commands.RunCheckPassphrase(
							ctx, credentials, logger, os.Stdout,
							cmd.String("passphrase"), cmd.String("format"),
						)
					})
				},
			},
			{
				Name:  "validate-allowlist",
				Usage: "Dry-run validation of allow-list entries",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "entries",
						Aliases:  []string{"e"},
						Required: true,
						Usage:    "Comma-separated allow-list entries",
					},
					formatFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					entries := splitEntries(cmd.String("entries"))
					return commands.RunValidateAllowlist(os.Stdout, entries, cmd.String("format"))
				},
			},
			{
				Name:  "sweep-csrf-tokens",
				Usage: "Delete expired and consumed anti-forgery tokens",
				Flags: []cli.Flag{dryRunFlag(), formatFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container, logger *slog.Logger) error {
						tokens, err := container.TokenUseCase()
						if err != nil {
							return err
						}
						return commands.RunSweepTokens(
							ctx, tokens, logger, os.Stdout,
							cmd.Bool("dry-run"), cmd.String("format"),
						)
					})
				},
			},
			{
				Name:  "clean-rate-windows",
				Usage: "Delete rate window rows older than the retention period",
				Flags: []cli.Flag{dryRunFlag(), formatFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container, logger *slog.Logger) error {
						limiter, err := container.RateLimitUseCase()
						if err != nil {
							return err
						}
						return commands.RunCleanRateWindows(
							ctx, limiter, logger, os.Stdout,
							cmd.Bool("dry-run"), cmd.String("format"),
						)
					})
				},
			},
			{
				Name:  "clean-access-logs",
				Usage: "Delete access log and violation rows older than the retention period",
				Flags: []cli.Flag{dryRunFlag(), formatFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container, logger *slog.Logger) error {
						sink, err := container.EventSink()
						if err != nil {
							return err
						}
						return commands.RunCleanAccessLogs(
							ctx, sink, logger, os.Stdout,
							cmd.Bool("dry-run"), cmd.String("format"),
						)
					})
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

// withContainer builds the DI container for a one-shot command and tears it
// down afterwards.
func withContainer(fn func(container *app.Container, logger *slog.Logger) error) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer func() {
		if err := container.Shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown container", slog.Any("error", err))
		}
	}()

	return fn(container, logger)
}

// dryRunFlag is the shared preview flag for the cleanup commands.
func dryRunFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "dry-run",
		Aliases: []string{"n"},
		Usage:   "Preview the deletion count without deleting",
	}
}

// formatFlag is the shared output format flag for one-shot commands.
func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

// splitEntries parses a comma-separated flag value into trimmed entries.
func splitEntries(value string) []string {
	parts := strings.Split(value, ",")
	entries := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			entries = append(entries, trimmed)
		}
	}
	return entries
}

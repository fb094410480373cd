package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	ratelimitUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/ratelimit/usecase"
)

// RunCleanRateWindows deletes rate window rows older than the configured
// retention. The server performs the same cleanup opportunistically; this
// command exists for scheduled maintenance. Supports dry-run mode to preview
// the deletion count.
//
// Requirements: Database must be migrated and accessible.
func RunCleanRateWindows(
	ctx context.Context,
	limiter ratelimitUsecase.RateLimitUseCase,
	logger *slog.Logger,
	out io.Writer,
	dryRun bool,
	format string,
) error {
	count, err := limiter.Cleanup(ctx, dryRun)
	if err != nil {
		return fmt.Errorf("failed to clean rate windows: %w", err)
	}

	logger.Info("rate window cleanup completed",
		slog.Int64("count", count),
		slog.Bool("dry_run", dryRun),
	)

	if format == "json" {
		return writeJSON(out, map[string]interface{}{"count": count, "dry_run": dryRun})
	}

	if dryRun {
		fmt.Fprintf(out, "Dry-run mode: Would delete %d expired rate window(s)\n", count)
	} else {
		fmt.Fprintf(out, "Successfully deleted %d expired rate window(s)\n", count)
	}
	return nil
}

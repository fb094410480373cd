package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	csrfUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/csrf/usecase"
)

// RunSweepTokens deletes expired and consumed anti-forgery tokens.
// Supports dry-run mode to preview the deletion count.
//
// Requirements: Database must be migrated and accessible.
func RunSweepTokens(
	ctx context.Context,
	tokens csrfUsecase.TokenUseCase,
	logger *slog.Logger,
	out io.Writer,
	dryRun bool,
	format string,
) error {
	count, err := tokens.Sweep(ctx, dryRun)
	if err != nil {
		return fmt.Errorf("failed to sweep tokens: %w", err)
	}

	logger.Info("token sweep completed",
		slog.Int64("count", count),
		slog.Bool("dry_run", dryRun),
	)

	if format == "json" {
		return writeJSON(out, map[string]interface{}{"count": count, "dry_run": dryRun})
	}

	if dryRun {
		fmt.Fprintf(out, "Dry-run mode: Would delete %d expired or used token(s)\n", count)
	} else {
		fmt.Fprintf(out, "Successfully deleted %d expired or used token(s)\n", count)
	}
	return nil
}

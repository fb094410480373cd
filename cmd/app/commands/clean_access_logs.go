package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	auditUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/audit/usecase"
)

// RunCleanAccessLogs deletes access log and violation rows older than the
// configured retention. Supports dry-run mode to preview the deletion count.
//
// Requirements: Database must be migrated and accessible.
func RunCleanAccessLogs(
	ctx context.Context,
	sink auditUsecase.EventSink,
	logger *slog.Logger,
	out io.Writer,
	dryRun bool,
	format string,
) error {
	count, err := sink.Cleanup(ctx, dryRun)
	if err != nil {
		return fmt.Errorf("failed to clean access logs: %w", err)
	}

	logger.Info("access log cleanup completed",
		slog.Int64("count", count),
		slog.Bool("dry_run", dryRun),
	)

	if format == "json" {
		return writeJSON(out, map[string]interface{}{"count": count, "dry_run": dryRun})
	}

	if dryRun {
		fmt.Fprintf(out, "Dry-run mode: Would delete %d audit record(s)\n", count)
	} else {
		fmt.Fprintf(out, "Successfully deleted %d audit record(s)\n", count)
	}
	return nil
}

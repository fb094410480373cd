package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	credentialUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/credential/usecase"
)

// RunCheckPassphrase verifies a passphrase against the stored credential and
// reports the result, flagging credentials still stored in the legacy
// plaintext format.
//
// Requirements: Database must be migrated and accessible.
func RunCheckPassphrase(
	ctx context.Context,
	credentials credentialUsecase.CredentialUseCase,
	logger *slog.Logger,
	out io.Writer,
	passphrase, format string,
) error {
	result, err := credentials.Check(ctx, passphrase)
	if err != nil {
		return fmt.Errorf("failed to check passphrase: %w", err)
	}

	logger.Info("passphrase checked",
		slog.Bool("valid", result.Valid),
		slog.Bool("legacy", result.Legacy),
	)

	if format == "json" {
		return writeJSON(out, map[string]interface{}{
			"valid":  result.Valid,
			"legacy": result.Legacy,
		})
	}

	if result.Valid {
		fmt.Fprintln(out, "Passphrase is valid")
		if result.Legacy {
			fmt.Fprintln(out, "Warning: credential is stored in the legacy plaintext format; set it again to upgrade")
		}
	} else {
		fmt.Fprintln(out, "Passphrase is invalid")
	}

	return nil
}

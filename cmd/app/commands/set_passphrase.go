package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	credentialUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/credential/usecase"
)

// RunSetPassphrase validates and stores a new shared admin passphrase. The
// previous credential is replaced and the change lands in the redacted
// settings history.
//
// Requirements: Database must be migrated and accessible.
func RunSetPassphrase(
	ctx context.Context,
	credentials credentialUsecase.CredentialUseCase,
	logger *slog.Logger,
	out io.Writer,
	passphrase, updatedBy string,
) error {
	if updatedBy == "" {
		updatedBy = "cli"
	}

	logger.Info("setting admin passphrase", slog.String("updated_by", updatedBy))

	if err := credentials.Set(ctx, passphrase, updatedBy); err != nil {
		return fmt.Errorf("failed to set passphrase: %w", err)
	}

	fmt.Fprintln(out, "Passphrase updated successfully")
	return nil
}

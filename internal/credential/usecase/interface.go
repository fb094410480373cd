// Package usecase implements business logic for the shared admin passphrase.
package usecase

import (
	"context"

	credentialDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/credential/domain"
	settingsDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/settings/domain"
)

// CredentialUseCase defines the interface for passphrase management.
type CredentialUseCase interface {
	// Set validates, hashes, and stores a new passphrase. The previous
	// value is replaced atomically and the change is recorded with
	// redacted history.
	Set(ctx context.Context, passphrase, updatedBy string) error
	// Check verifies a presented passphrase against the stored credential.
	// Returns ErrNotConfigured when no passphrase was ever set.
	Check(ctx context.Context, passphrase string) (*credentialDomain.CheckResult, error)
	// History lists credential change records, newest first. Values are
	// redacted at write time.
	History(ctx context.Context, limit int) ([]*settingsDomain.Change, error)
}

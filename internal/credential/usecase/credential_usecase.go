package usecase

import (
	"context"
	"errors"

	credentialDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/credential/domain"
	credentialService "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/credential/service"
	settingsDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/settings/domain"
	settingsUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/settings/usecase"
)

// credentialUseCase implements CredentialUseCase on top of the settings
// store. The credential lives under the admin_passphrase key; the settings
// layer provides the transactional write and the redacted history.
type credentialUseCase struct {
	passphrases credentialService.PassphraseManager
	settings    settingsUsecase.SettingsUseCase
}

// Set validates, hashes, and stores a new passphrase.
func (c *credentialUseCase) Set(ctx context.Context, passphrase, updatedBy string) error {
	if err := c.passphrases.ValidateFormat(passphrase); err != nil {
		return err
	}

	credential, err := c.passphrases.Hash(passphrase)
	if err != nil {
		return err
	}

	return c.settings.Set(
		ctx,
		settingsDomain.KeyAdminPassphrase,
		c.passphrases.Encode(credential),
		settingsDomain.TypeString,
		updatedBy,
	)
}

// Check verifies a presented passphrase against the stored credential.
func (c *credentialUseCase) Check(
	ctx context.Context,
	passphrase string,
) (*credentialDomain.CheckResult, error) {
	setting, err := c.settings.Get(ctx, settingsDomain.KeyAdminPassphrase)
	if err != nil {
		if errors.Is(err, settingsDomain.ErrSettingNotFound) {
			return nil, credentialDomain.ErrNotConfigured
		}
		return nil, err
	}

	credential := c.passphrases.Decode(setting.Value)
	return &credentialDomain.CheckResult{
		Valid:  c.passphrases.Verify(passphrase, credential),
		Legacy: credential.Algorithm == credentialDomain.LegacyPlaintext,
	}, nil
}

// History lists credential change records, newest first.
func (c *credentialUseCase) History(
	ctx context.Context,
	limit int,
) ([]*settingsDomain.Change, error) {
	return c.settings.History(ctx, settingsDomain.KeyAdminPassphrase, limit)
}

// NewCredentialUseCase creates a new credential use case.
func NewCredentialUseCase(
	passphrases credentialService.PassphraseManager,
	settings settingsUsecase.SettingsUseCase,
) CredentialUseCase {
	return &credentialUseCase{
		passphrases: passphrases,
		settings:    settings,
	}
}

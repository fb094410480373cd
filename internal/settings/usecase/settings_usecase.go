package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/database"
	settingsDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/settings/domain"
)

// settingsUseCase implements the SettingsUseCase interface.
type settingsUseCase struct {
	txManager database.TxManager
	repo      SettingsRepository
	defaults  settingsDomain.SecuritySettings
}

// Get retrieves a raw setting by key.
func (s *settingsUseCase) Get(ctx context.Context, key string) (*settingsDomain.Setting, error) {
	return s.repo.Get(ctx, key)
}

// GetBool resolves a boolean setting with fallback on missing or malformed values.
func (s *settingsUseCase) GetBool(ctx context.Context, key string, fallback bool) bool {
	raw, ok := s.rawValue(ctx, key)
	if !ok {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("stored setting is not a boolean, using fallback", "key", key)
		return fallback
	}
	return value
}

// GetString resolves a string setting with fallback on missing values.
func (s *settingsUseCase) GetString(ctx context.Context, key string, fallback string) string {
	raw, ok := s.rawValue(ctx, key)
	if !ok {
		return fallback
	}
	return raw
}

// GetStringList resolves a string-list setting with fallback on missing or
// malformed values. Lists are stored as JSON arrays.
func (s *settingsUseCase) GetStringList(ctx context.Context, key string, fallback []string) []string {
	raw, ok := s.rawValue(ctx, key)
	if !ok {
		return fallback
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		slog.Warn("stored setting is not a string list, using fallback", "key", key)
		return fallback
	}
	return values
}

// rawValue fetches the stored string for a key. The second return value is
// false when the key is absent or the store is unreachable.
func (s *settingsUseCase) rawValue(ctx context.Context, key string) (string, bool) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, settingsDomain.ErrSettingNotFound) {
			slog.Warn("failed to read setting, using fallback", "key", key, "error", err)
		}
		return "", false
	}
	return setting.Value, true
}

// Set stores a setting and appends a change history record within a single
// transaction. History values for sensitive keys are redacted.
func (s *settingsUseCase) Set(
	ctx context.Context,
	key, value string,
	valueType settingsDomain.ValueType,
	updatedBy string,
) error {
	oldValue := ""
	existing, err := s.repo.Get(ctx, key)
	if err != nil && !errors.Is(err, settingsDomain.ErrSettingNotFound) {
		return err
	}
	if existing != nil {
		oldValue = existing.Value
	}

	now := time.Now().UTC()
	setting := &settingsDomain.Setting{
		Key:       key,
		Value:     value,
		ValueType: valueType,
		UpdatedBy: updatedBy,
		UpdatedAt: now,
	}

	historyOld, historyNew := oldValue, value
	if isSensitiveKey(key) {
		if historyOld != "" {
			historyOld = settingsDomain.RedactedPlaceholder
		}
		historyNew = settingsDomain.RedactedPlaceholder
	}
	change := &settingsDomain.Change{
		ID:        uuid.Must(uuid.NewV7()),
		Key:       key,
		OldValue:  historyOld,
		NewValue:  historyNew,
		ChangedBy: updatedBy,
		ChangedAt: now,
	}

	return s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Upsert(txCtx, setting); err != nil {
			return err
		}
		return s.repo.CreateChange(txCtx, change)
	})
}

// History retrieves change records for a key, newest first.
func (s *settingsUseCase) History(
	ctx context.Context,
	key string,
	limit int,
) ([]*settingsDomain.Change, error) {
	return s.repo.ListChanges(ctx, key, limit)
}

// Security resolves the runtime security settings. Each field resolves
// independently so a single malformed value never poisons the rest.
func (s *settingsUseCase) Security(ctx context.Context) settingsDomain.SecuritySettings {
	return settingsDomain.SecuritySettings{
		ReferrerCheckEnabled: s.GetBool(
			ctx, settingsDomain.KeyReferrerCheckEnabled, s.defaults.ReferrerCheckEnabled),
		AllowedReferrerDomains: s.GetStringList(
			ctx, settingsDomain.KeyAllowedReferrerDomains, s.defaults.AllowedReferrerDomains),
		BlockedUserAgents: s.GetStringList(
			ctx, settingsDomain.KeyBlockedUserAgents, s.defaults.BlockedUserAgents),
		StrictMode: s.GetBool(
			ctx, settingsDomain.KeyStrictMode, s.defaults.StrictMode),
		LogBlockedAttempts: s.GetBool(
			ctx, settingsDomain.KeyLogBlockedAttempts, s.defaults.LogBlockedAttempts),
		UserAgentCheckEnabled: s.GetBool(
			ctx, settingsDomain.KeyUserAgentCheckEnabled, s.defaults.UserAgentCheckEnabled),
	}
}

// isSensitiveKey reports whether a key's value must never appear in history.
func isSensitiveKey(key string) bool {
	return key == settingsDomain.KeyAdminPassphrase
}

// NewSettingsUseCase creates a new settings use case. The defaults supply
// the environment-derived fallback for every security setting.
func NewSettingsUseCase(
	txManager database.TxManager,
	repo SettingsRepository,
	defaults settingsDomain.SecuritySettings,
) SettingsUseCase {
	return &settingsUseCase{
		txManager: txManager,
		repo:      repo,
		defaults:  defaults,
	}
}

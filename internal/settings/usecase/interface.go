// Package usecase defines the interfaces and implementations for the settings
// store use cases. The settings store is a typed key/value table with an
// append-only change history; the shared admin passphrase and the runtime
// security options both live here.
package usecase

import (
	"context"

	settingsDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/settings/domain"
)

// SettingsRepository defines the interface for setting persistence operations.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (*settingsDomain.Setting, error)
	Upsert(ctx context.Context, setting *settingsDomain.Setting) error
	CreateChange(ctx context.Context, change *settingsDomain.Change) error
	ListChanges(ctx context.Context, key string, limit int) ([]*settingsDomain.Change, error)
}

// SettingsUseCase defines the interface for settings store business logic.
//
// The typed getters resolve with store > environment default precedence:
// a stored value wins, a missing key falls back, and a malformed stored
// value also falls back rather than failing the caller.
type SettingsUseCase interface {
	Get(ctx context.Context, key string) (*settingsDomain.Setting, error)
	GetBool(ctx context.Context, key string, fallback bool) bool
	GetString(ctx context.Context, key string, fallback string) string
	GetStringList(ctx context.Context, key string, fallback []string) []string
	Set(ctx context.Context, key, value string, valueType settingsDomain.ValueType, updatedBy string) error
	History(ctx context.Context, key string, limit int) ([]*settingsDomain.Change, error)
	Security(ctx context.Context) settingsDomain.SecuritySettings
}

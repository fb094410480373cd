package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	settingsDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/settings/domain"
)

// MockSettingsUseCase is a mock implementation of SettingsUseCase for testing.
type MockSettingsUseCase struct {
	mock.Mock
}

// Get mocks the Get method of SettingsUseCase.
func (m *MockSettingsUseCase) Get(
	ctx context.Context,
	key string,
) (*settingsDomain.Setting, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settingsDomain.Setting), args.Error(1)
}

// GetBool mocks the GetBool method of SettingsUseCase.
func (m *MockSettingsUseCase) GetBool(ctx context.Context, key string, fallback bool) bool {
	args := m.Called(ctx, key, fallback)
	return args.Bool(0)
}

// GetString mocks the GetString method of SettingsUseCase.
func (m *MockSettingsUseCase) GetString(ctx context.Context, key string, fallback string) string {
	args := m.Called(ctx, key, fallback)
	return args.String(0)
}

// GetStringList mocks the GetStringList method of SettingsUseCase.
func (m *MockSettingsUseCase) GetStringList(
	ctx context.Context,
	key string,
	fallback []string,
) []string {
	args := m.Called(ctx, key, fallback)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

// Set mocks the Set method of SettingsUseCase.
func (m *MockSettingsUseCase) Set(
	ctx context.Context,
	key, value string,
	valueType settingsDomain.ValueType,
	updatedBy string,
) error {
	args := m.Called(ctx, key, value, valueType, updatedBy)
	return args.Error(0)
}

// History mocks the History method of SettingsUseCase.
func (m *MockSettingsUseCase) History(
	ctx context.Context,
	key string,
	limit int,
) ([]*settingsDomain.Change, error) {
	args := m.Called(ctx, key, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*settingsDomain.Change), args.Error(1)
}

// Security mocks the Security method of SettingsUseCase.
func (m *MockSettingsUseCase) Security(ctx context.Context) settingsDomain.SecuritySettings {
	args := m.Called(ctx)
	return args.Get(0).(settingsDomain.SecuritySettings)
}

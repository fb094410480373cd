// Package mocks provides mock implementations for testing settings use cases.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	settingsDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/settings/domain"
)

// MockSettingsRepository is a mock implementation of SettingsRepository for testing.
type MockSettingsRepository struct {
	mock.Mock
}

// Get mocks the Get method of SettingsRepository.
func (m *MockSettingsRepository) Get(
	ctx context.Context,
	key string,
) (*settingsDomain.Setting, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settingsDomain.Setting), args.Error(1)
}

// Upsert mocks the Upsert method of SettingsRepository.
func (m *MockSettingsRepository) Upsert(
	ctx context.Context,
	setting *settingsDomain.Setting,
) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

// CreateChange mocks the CreateChange method of SettingsRepository.
func (m *MockSettingsRepository) CreateChange(
	ctx context.Context,
	change *settingsDomain.Change,
) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

// ListChanges mocks the ListChanges method of SettingsRepository.
func (m *MockSettingsRepository) ListChanges(
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

// Package mocks provides mock implementations for testing token use cases.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	csrfDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/csrf/domain"
)

// MockTokenRepository is a mock implementation of TokenRepository for testing.
type MockTokenRepository struct {
	mock.Mock
}

// Create mocks the Create method of TokenRepository.
func (m *MockTokenRepository) Create(ctx context.Context, token *csrfDomain.Token) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// Consume mocks the Consume method of TokenRepository.
func (m *MockTokenRepository) Consume(
	ctx context.Context,
	tokenHash, sessionID string,
	now time.Time,
) (bool, error) {
	args := m.Called(ctx, tokenHash, sessionID, now)
	return args.Bool(0), args.Error(1)
}

// Get mocks the Get method of TokenRepository.
func (m *MockTokenRepository) Get(
	ctx context.Context,
	tokenHash, sessionID string,
) (*csrfDomain.Token, error) {
	args := m.Called(ctx, tokenHash, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*csrfDomain.Token), args.Error(1)
}

// GetLatestActive mocks the GetLatestActive method of TokenRepository.
func (m *MockTokenRepository) GetLatestActive(
	ctx context.Context,
	sessionID string,
	now time.Time,
) (*csrfDomain.Token, error) {
	args := m.Called(ctx, sessionID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*csrfDomain.Token), args.Error(1)
}

// Delete mocks the Delete method of TokenRepository.
func (m *MockTokenRepository) Delete(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

// CountExpiredOrUsed mocks the CountExpiredOrUsed method of TokenRepository.
func (m *MockTokenRepository) CountExpiredOrUsed(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteExpiredOrUsed mocks the DeleteExpiredOrUsed method of TokenRepository.
func (m *MockTokenRepository) DeleteExpiredOrUsed(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// Package mocks provides mock implementations for testing rate limit use cases.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockWindowRepository is a mock implementation of WindowRepository for testing.
type MockWindowRepository struct {
	mock.Mock
}

// Count mocks the Count method of WindowRepository.
func (m *MockWindowRepository) Count(
	ctx context.Context,
	endpoint, callerID string,
	windowStart time.Time,
) (int, error) {
	args := m.Called(ctx, endpoint, callerID, windowStart)
	return args.Int(0), args.Error(1)
}

// Increment mocks the Increment method of WindowRepository.
func (m *MockWindowRepository) Increment(
	ctx context.Context,
	endpoint, callerID string,
	windowStart time.Time,
) error {
	args := m.Called(ctx, endpoint, callerID, windowStart)
	return args.Error(0)
}

// CountBefore mocks the CountBefore method of WindowRepository.
func (m *MockWindowRepository) CountBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteBefore mocks the DeleteBefore method of WindowRepository.
func (m *MockWindowRepository) DeleteBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

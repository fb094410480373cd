// Package mocks provides mock implementations for testing the event sink.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	auditDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/audit/domain"
)

// MockAuditRepository is a mock implementation of AuditRepository for testing.
type MockAuditRepository struct {
	mock.Mock
}

// CreateAccess mocks the CreateAccess method of AuditRepository.
func (m *MockAuditRepository) CreateAccess(
	ctx context.Context,
	entry *auditDomain.AccessEntry,
) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// CreateViolation mocks the CreateViolation method of AuditRepository.
func (m *MockAuditRepository) CreateViolation(
	ctx context.Context,
	violation *auditDomain.Violation,
) error {
	args := m.Called(ctx, violation)
	return args.Error(0)
}

// ListAccess mocks the ListAccess method of AuditRepository.
func (m *MockAuditRepository) ListAccess(
	ctx context.Context,
	limit int,
) ([]*auditDomain.AccessEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.AccessEntry), args.Error(1)
}

// ListViolations mocks the ListViolations method of AuditRepository.
func (m *MockAuditRepository) ListViolations(
	ctx context.Context,
	limit int,
) ([]*auditDomain.Violation, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.Violation), args.Error(1)
}

// CountBefore mocks the CountBefore method of AuditRepository.
func (m *MockAuditRepository) CountBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteBefore mocks the DeleteBefore method of AuditRepository.
func (m *MockAuditRepository) DeleteBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

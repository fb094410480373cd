// Package mocks provides mock implementations for testing HTTP handlers and
// middleware.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	auditDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/audit/domain"
	credentialDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/credential/domain"
	settingsDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/settings/domain"
)

// MockTokenUseCase is a mock implementation of TokenUseCase for testing.
type MockTokenUseCase struct {
	mock.Mock
}

// Issue mocks the Issue method of TokenUseCase.
func (m *MockTokenUseCase) Issue(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

// Validate mocks the Validate method of TokenUseCase.
func (m *MockTokenUseCase) Validate(ctx context.Context, token, sessionID string) bool {
	args := m.Called(ctx, token, sessionID)
	return args.Bool(0)
}

// GetOrIssue mocks the GetOrIssue method of TokenUseCase.
func (m *MockTokenUseCase) GetOrIssue(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

// Sweep mocks the Sweep method of TokenUseCase.
func (m *MockTokenUseCase) Sweep(ctx context.Context, dryRun bool) (int64, error) {
	args := m.Called(ctx, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// MockRateLimitUseCase is a mock implementation of RateLimitUseCase for testing.
type MockRateLimitUseCase struct {
	mock.Mock
}

// Admit mocks the Admit method of RateLimitUseCase.
func (m *MockRateLimitUseCase) Admit(ctx context.Context, endpoint, callerID string) bool {
	args := m.Called(ctx, endpoint, callerID)
	return args.Bool(0)
}

// Cleanup mocks the Cleanup method of RateLimitUseCase.
func (m *MockRateLimitUseCase) Cleanup(ctx context.Context, dryRun bool) (int64, error) {
	args := m.Called(ctx, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// MockCredentialUseCase is a mock implementation of CredentialUseCase for testing.
type MockCredentialUseCase struct {
	mock.Mock
}

// Set mocks the Set method of CredentialUseCase.
func (m *MockCredentialUseCase) Set(ctx context.Context, passphrase, updatedBy string) error {
	args := m.Called(ctx, passphrase, updatedBy)
	return args.Error(0)
}

// Check mocks the Check method of CredentialUseCase.
func (m *MockCredentialUseCase) Check(
	ctx context.Context,
	passphrase string,
) (*credentialDomain.CheckResult, error) {
	args := m.Called(ctx, passphrase)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.CheckResult), args.Error(1)
}

// History mocks the History method of CredentialUseCase.
func (m *MockCredentialUseCase) History(
	ctx context.Context,
	limit int,
) ([]*settingsDomain.Change, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*settingsDomain.Change), args.Error(1)
}

// MockEventSink is a mock implementation of EventSink for testing.
type MockEventSink struct {
	mock.Mock
}

// RecordAccess mocks the RecordAccess method of EventSink.
func (m *MockEventSink) RecordAccess(ctx context.Context, entry *auditDomain.AccessEntry) {
	m.Called(ctx, entry)
}

// RecordViolation mocks the RecordViolation method of EventSink.
func (m *MockEventSink) RecordViolation(
	ctx context.Context,
	violationType, ip string,
	details map[string]any,
) {
	m.Called(ctx, violationType, ip, details)
}

// ListAccess mocks the ListAccess method of EventSink.
func (m *MockEventSink) ListAccess(
	ctx context.Context,
	limit int,
) ([]*auditDomain.AccessEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.AccessEntry), args.Error(1)
}

// ListViolations mocks the ListViolations method of EventSink.
func (m *MockEventSink) ListViolations(
	ctx context.Context,
	limit int,
) ([]*auditDomain.Violation, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.Violation), args.Error(1)
}

// Cleanup mocks the Cleanup method of EventSink.
func (m *MockEventSink) Cleanup(ctx context.Context, dryRun bool) (int64, error) {
	args := m.Called(ctx, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

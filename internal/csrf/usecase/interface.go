// Package usecase implements the anti-forgery token ledger business logic.
package usecase

import (
	"context"
	"time"

	csrfDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/csrf/domain"
)

// TokenRepository defines the interface for token persistence operations.
type TokenRepository interface {
	Create(ctx context.Context, token *csrfDomain.Token) error
	// Consume atomically flips used=false to used=true when the token is
	// present, session-bound, unused, and unexpired.
	Consume(ctx context.Context, tokenHash, sessionID string, now time.Time) (bool, error)
	Get(ctx context.Context, tokenHash, sessionID string) (*csrfDomain.Token, error)
	GetLatestActive(ctx context.Context, sessionID string, now time.Time) (*csrfDomain.Token, error)
	Delete(ctx context.Context, tokenHash string) error
	CountExpiredOrUsed(ctx context.Context, now time.Time) (int64, error)
	DeleteExpiredOrUsed(ctx context.Context, now time.Time) (int64, error)
}

// TokenUseCase defines the interface for the token ledger.
type TokenUseCase interface {
	// Issue creates and persists a new token for a session. A storage
	// failure never leaves the caller without a token: an unpersisted
	// fallback value is returned instead, which will fail every Validate.
	Issue(ctx context.Context, sessionID string) (string, error)
	// Validate consumes a token. False for unknown, expired, used, or
	// mismatched tokens, and on any storage error (fail closed).
	Validate(ctx context.Context, token, sessionID string) bool
	// GetOrIssue returns the session's most recent active token, issuing
	// a new one only when none exists.
	GetOrIssue(ctx context.Context, sessionID string) (string, error)
	// Sweep deletes expired and consumed tokens. Intended for a periodic
	// job, not the request path. In dry-run mode it only counts.
	Sweep(ctx context.Context, dryRun bool) (int64, error)
}

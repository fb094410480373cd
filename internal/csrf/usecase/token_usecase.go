package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	csrfDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/csrf/domain"
	csrfService "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/csrf/service"
	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
)

// tokenUseCase implements the TokenUseCase interface.
type tokenUseCase struct {
	generator  csrfService.TokenGenerator
	repo       TokenRepository
	expiration time.Duration
	nowFn      func() time.Time
}

// Issue creates and persists a new token for a session.
func (t *tokenUseCase) Issue(ctx context.Context, sessionID string) (string, error) {
	now := t.nowFn()

	value, err := t.generator.Generate(sessionID, now)
	if err != nil {
		return "", err
	}

	token := &csrfDomain.Token{
		TokenHash: value,
		SessionID: sessionID,
		CreatedAt: now,
		ExpiresAt: now.Add(t.expiration),
		Used:      false,
	}

	if err := t.repo.Create(ctx, token); err != nil {
		// The UI must always receive a token. The fallback is never
		// persisted, so it will fail validation later.
		slog.Warn("csrf token persistence failed, returning fallback", "error", err)
		return t.generator.Fallback()
	}

	return value, nil
}

// Validate consumes a token, failing closed on storage errors.
func (t *tokenUseCase) Validate(ctx context.Context, token, sessionID string) bool {
	if token == "" || sessionID == "" {
		return false
	}

	now := t.nowFn()
	consumed, err := t.repo.Consume(ctx, token, sessionID, now)
	if err != nil {
		slog.Warn("csrf token consume failed, denying", "error", err)
		return false
	}
	if consumed {
		return true
	}

	// The conditional update did not match. Expired rows are removed
	// eagerly so the table does not accumulate garbage between sweeps.
	existing, err := t.repo.Get(ctx, token, sessionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			slog.Warn("csrf token lookup failed", "error", err)
		}
		return false
	}
	if !existing.Used && !now.Before(existing.ExpiresAt) {
		if err := t.repo.Delete(ctx, token); err != nil {
			slog.Warn("failed to delete expired csrf token", "error", err)
		}
	}

	return false
}

// GetOrIssue returns the most recent active token, issuing one if needed.
// Avoids token churn on repeated page renders within a session.
func (t *tokenUseCase) GetOrIssue(ctx context.Context, sessionID string) (string, error) {
	existing, err := t.repo.GetLatestActive(ctx, sessionID, t.nowFn())
	if err == nil {
		return existing.TokenHash, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		slog.Warn("active csrf token lookup failed, issuing new", "error", err)
	}
	return t.Issue(ctx, sessionID)
}

// Sweep deletes expired and consumed tokens. In dry-run mode it only counts
// what would be removed.
func (t *tokenUseCase) Sweep(ctx context.Context, dryRun bool) (int64, error) {
	if dryRun {
		return t.repo.CountExpiredOrUsed(ctx, t.nowFn())
	}
	return t.repo.DeleteExpiredOrUsed(ctx, t.nowFn())
}

// NewTokenUseCase creates a new token use case. A non-positive expiration
// falls back to the default lifetime.
func NewTokenUseCase(
	generator csrfService.TokenGenerator,
	repo TokenRepository,
	expiration time.Duration,
) TokenUseCase {
	if expiration <= 0 {
		expiration = csrfDomain.DefaultExpiration
	}
	return &tokenUseCase{
		generator:  generator,
		repo:       repo,
		expiration: expiration,
		nowFn:      func() time.Time { return time.Now().UTC() },
	}
}

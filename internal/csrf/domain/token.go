// Package domain defines the anti-forgery token model.
//
// A token is bound to one session and consumed at most once. Lifecycle:
// issued (unused, unexpired), then either consumed or expired; neither
// terminal state can be left.
package domain

import (
	"time"
)

// DefaultExpiration is the token lifetime applied when no override is configured.
const DefaultExpiration = time.Hour

// Token is one ledger row. TokenHash is the externally visible token value;
// the random material it was derived from is never stored or retrievable.
type Token struct {
	TokenHash string
	SessionID string
	CreatedAt time.Time
	ExpiresAt time.Time
	Used      bool
}

// Active reports whether the token can still be consumed at the given time.
func (t *Token) Active(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}

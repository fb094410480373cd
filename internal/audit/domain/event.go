// Package domain defines the append-only security audit models.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultRetention bounds how long audit rows are kept.
const DefaultRetention = 90 * 24 * time.Hour

// AccessEntry is one audited request: where it went, who it resolved to,
// and how the referrer was classified. RawHeaders keeps the original header
// map so later investigation is not limited to what was extracted.
type AccessEntry struct {
	ID             uuid.UUID
	Endpoint       string
	Action         string
	ResolvedIP     string
	RawHeaders     map[string][]string
	Classification string
	SessionID      string
	Metadata       map[string]any
	CreatedAt      time.Time
}

// Violation is one recorded denial or abuse signal.
type Violation struct {
	ID        uuid.UUID
	Type      string
	IP        string
	Details   map[string]any
	CreatedAt time.Time
}

// Violation types recorded by the protection layer.
const (
	ViolationInvalidReferrer   = "invalid_referrer"
	ViolationBlockedUserAgent  = "blocked_user_agent"
	ViolationCSRFFailure       = "csrf_failure"
	ViolationRateLimited       = "rate_limited"
	ViolationInvalidCredential = "invalid_credential"
)

// Package domain defines the typed settings store models: key/value pairs
// with a change history. The shared admin passphrase and the runtime security
// options both live in this store.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ValueType identifies how a setting's stored string is interpreted.
type ValueType string

const (
	// TypeBool stores "true"/"false".
	TypeBool ValueType = "boolean"

	// TypeString stores the value verbatim.
	TypeString ValueType = "string"

	// TypeStringList stores a JSON array of strings.
	TypeStringList ValueType = "string_list"
)

// Well-known setting keys recognized by the protection layer.
const (
	// KeyAdminPassphrase holds the shared credential as "hash:salt"
	// (or a bare string in the deprecated legacy format).
	KeyAdminPassphrase = "admin_passphrase"

	// KeyReferrerCheckEnabled is the master switch for referrer/UA enforcement.
	KeyReferrerCheckEnabled = "enabled"

	// KeyAllowedReferrerDomains is the allow-list (exact/suffix/CIDR/range entries).
	KeyAllowedReferrerDomains = "allowed_referrer_domains"

	// KeyBlockedUserAgents lists substrings that cause automatic denial.
	KeyBlockedUserAgents = "blocked_user_agents"

	// KeyStrictMode escalates ambiguous cases to denial.
	KeyStrictMode = "strict_mode"

	// KeyLogBlockedAttempts toggles audit writes for denials.
	KeyLogBlockedAttempts = "log_blocked_attempts"

	// KeyUserAgentCheckEnabled toggles the blocked-UA check independently.
	KeyUserAgentCheckEnabled = "user_agent_check_enabled"
)

// RedactedPlaceholder replaces sensitive values in change history records.
// The cleartext of a sensitive setting is never persisted in history.
const RedactedPlaceholder = "[REDACTED]"

// Setting is one typed key/value pair. Exactly one row exists per key.
type Setting struct {
	Key       string
	Value     string
	ValueType ValueType
	UpdatedBy string
	UpdatedAt time.Time
}

// Change is an append-only history record of a setting mutation.
type Change struct {
	ID        uuid.UUID
	Key       string
	OldValue  string
	NewValue  string
	ChangedBy string
	ChangedAt time.Time
}

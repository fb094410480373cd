package domain

// SecuritySettings is the resolved runtime configuration of the request
// protection layer. Values come from the settings store when present,
// otherwise from the environment-derived defaults.
type SecuritySettings struct {
	ReferrerCheckEnabled   bool
	AllowedReferrerDomains []string
	BlockedUserAgents      []string
	StrictMode             bool
	LogBlockedAttempts     bool
	UserAgentCheckEnabled  bool
}

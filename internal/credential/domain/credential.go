// Package domain defines the shared admin passphrase credential model.
package domain

// Algorithm identifies how a stored credential was derived.
type Algorithm string

const (
	// PBKDF2SHA256 is the current storage format: "hash:salt" with both
	// halves hex encoded.
	PBKDF2SHA256 Algorithm = "pbkdf2_sha256"

	// LegacyPlaintext is the deprecated format: the stored value is the
	// passphrase itself. Still verifiable, never written.
	LegacyPlaintext Algorithm = "legacy_plaintext"
)

// Credential is a decoded stored credential. For PBKDF2SHA256 both Hash and
// Salt hold hex strings; for LegacyPlaintext, Hash holds the raw passphrase
// and Salt is empty.
type Credential struct {
	Hash      string
	Salt      string
	Algorithm Algorithm
}

// CheckResult is the outcome of verifying a presented passphrase.
type CheckResult struct {
	Valid bool
	// Legacy reports the stored credential is still in the plaintext
	// format and should be rotated.
	Legacy bool
}

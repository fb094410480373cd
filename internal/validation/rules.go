// Package validation provides custom validation rules for the application.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
)

var (
	// passphraseCharsRegex is the only character class accepted in a passphrase.
	passphraseCharsRegex = regexp.MustCompile(`^[0-9a-zA-Z_-]+$`)

	// hostnameRegex accepts plain hostnames and leading-dot domain suffixes.
	// Deliberately loose: exotic but legal hostnames exist, so failures are
	// surfaced as warnings by the allowlist validator, not hard errors.
	hostnameRegex = regexp.MustCompile(`^\.?[0-9a-zA-Z]([0-9a-zA-Z.-]*[0-9a-zA-Z])?$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// PassphraseFormat validates the shared passphrase format: length within
// [MinLength, MaxLength] and characters drawn only from [0-9a-zA-Z_-].
type PassphraseFormat struct {
	MinLength int
	MaxLength int
}

// Validate checks if the passphrase meets the configured requirements.
func (p PassphraseFormat) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_passphrase_type", "passphrase must be a string")
	}

	if len(s) < p.MinLength || len(s) > p.MaxLength {
		return validation.NewError(
			"validation_passphrase_length",
			fmt.Sprintf("passphrase must be between %d and %d characters", p.MinLength, p.MaxLength),
		)
	}

	if !passphraseCharsRegex.MatchString(s) {
		return validation.NewError(
			"validation_passphrase_charset",
			"passphrase may only contain letters, digits, underscore, and hyphen",
		)
	}

	return nil
}

// LooksLikeHostname reports whether a string resembles a plain hostname or a
// leading-dot domain suffix pattern.
func LooksLikeHostname(s string) bool {
	if s == "" || strings.Contains(s, "..") {
		return false
	}
	return hostnameRegex.MatchString(s)
}

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

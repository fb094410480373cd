package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
)

func TestPassphraseFormat(t *testing.T) {
	rule := PassphraseFormat{MinLength: 32, MaxLength: 128}

	t.Run("AcceptsValidPassphrases", func(t *testing.T) {
		valid := []string{
			strings.Repeat("a", 32),
			strings.Repeat("a", 128),
			strings.Repeat("A9_-", 10),
		}
		for _, s := range valid {
			assert.NoError(t, rule.Validate(s), "expected %q to validate", s)
		}
	})

	t.Run("RejectsBadLength", func(t *testing.T) {
		assert.Error(t, rule.Validate(strings.Repeat("a", 31)))
		assert.Error(t, rule.Validate(strings.Repeat("a", 129)))
		assert.Error(t, rule.Validate(""))
	})

	t.Run("RejectsBadCharacters", func(t *testing.T) {
		bad := []string{
			strings.Repeat("a", 31) + "!",
			strings.Repeat("a", 31) + " ",
			strings.Repeat("a", 31) + "é",
		}
		for _, s := range bad {
			assert.Error(t, rule.Validate(s), "expected %q to fail", s)
		}
	})

	t.Run("RejectsNonString", func(t *testing.T) {
		assert.Error(t, rule.Validate(12345))
		assert.Error(t, rule.Validate(nil))
	})
}

func TestLooksLikeHostname(t *testing.T) {
	assert.True(t, LooksLikeHostname("example.com"))
	assert.True(t, LooksLikeHostname(".example.com"))
	assert.True(t, LooksLikeHostname("a.b-c.example.com"))

	assert.False(t, LooksLikeHostname(""))
	assert.False(t, LooksLikeHostname("exa mple.com"))
	assert.False(t, LooksLikeHostname("example..com"))
	assert.False(t, LooksLikeHostname("-example.com"))
}

func TestWrapValidationError(t *testing.T) {
	assert.NoError(t, WrapValidationError(nil))

	err := WrapValidationError(apperrors.New("bad passphrase"))
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
}

package domain

import (
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
)

var (
	// ErrNotConfigured indicates no passphrase has ever been set.
	ErrNotConfigured = errors.Wrap(errors.ErrNotConfigured, "admin passphrase not configured")

	// ErrInvalidFormat indicates a candidate passphrase violates the
	// length or character-set rules.
	ErrInvalidFormat = errors.Wrap(errors.ErrInvalidInput, "invalid passphrase format")
)

package domain

import (
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
)

var (
	// ErrTokenInvalid covers every rejection reason: unknown, expired,
	// already used, or bound to another session. Callers must not be able
	// to tell these apart.
	ErrTokenInvalid = errors.Wrap(errors.ErrForbidden, "invalid csrf token")
)

package domain

import (
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
)

var (
	// ErrSettingNotFound indicates no value has ever been stored for a key.
	ErrSettingNotFound = errors.Wrap(errors.ErrNotFound, "setting not found")
)

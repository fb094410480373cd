// Package domain defines the fixed-window rate limit model.
package domain

import (
	"time"
)

const (
	// DefaultWindow is the fixed window width.
	DefaultWindow = 10 * time.Minute

	// DefaultCeiling is the admissions allowed per window.
	DefaultCeiling = 10

	// DefaultRetention bounds how long spent windows are kept.
	DefaultRetention = 24 * time.Hour
)

// Window is one counting bucket: requests from one caller to one endpoint
// within one wall-clock-aligned window. Exactly one row exists per
// (endpoint, caller_id, window_start).
type Window struct {
	Endpoint    string
	CallerID    string
	WindowStart time.Time
	Count       int
}

// WindowStart truncates now down to the containing window boundary.
func WindowStart(now time.Time, window time.Duration) time.Time {
	return now.Truncate(window)
}

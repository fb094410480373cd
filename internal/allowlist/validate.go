package allowlist

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/validation"
)

// Result reports the outcome of validating an allow-list configuration.
// Errors make the configuration invalid; warnings flag entries that are
// probably mistakes but could be exotic-yet-legal hostnames.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// ValidateAllowlist sanity-checks allow-list entries at configuration write
// time. CIDR entries must parse; range entries must be ordered and within one
// address family. Bare strings that are neither IP literals nor plausible
// hostnames produce warnings only.
func ValidateAllowlist(entries []string) Result {
	result := Result{Valid: true}

	for _, raw := range entries {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			result.Valid = false
			result.Errors = append(result.Errors, "empty allowlist entry")
			continue
		}

		if strings.Contains(entry, "/") {
			if _, err := netip.ParsePrefix(entry); err != nil {
				result.Valid = false
				result.Errors = append(result.Errors,
					fmt.Sprintf("invalid CIDR entry %q", entry))
			}
			continue
		}

		if looksLikeRange(entry) {
			start, end, ok := splitRange(entry)
			switch {
			case !ok:
				result.Valid = false
				result.Errors = append(result.Errors,
					fmt.Sprintf("invalid IP range entry %q", entry))
			case start.Is4() != end.Is4():
				result.Valid = false
				result.Errors = append(result.Errors,
					fmt.Sprintf("range entry %q mixes address families", entry))
			case start.Compare(end) > 0:
				result.Valid = false
				result.Errors = append(result.Errors,
					fmt.Sprintf("range entry %q has start greater than end", entry))
			}
			continue
		}

		if _, err := netip.ParseAddr(entry); err == nil {
			continue
		}

		if !validation.LooksLikeHostname(entry) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("entry %q is neither an IP nor a simple hostname", entry))
		}
	}

	return result
}

// looksLikeRange reports whether the entry is intended as a hyphenated IP
// range: at least one side of the first hyphen parses as an IP literal.
// Hostnames with hyphens ("my-site.com") fall through to hostname handling.
func looksLikeRange(entry string) bool {
	left, right, found := strings.Cut(entry, "-")
	if !found {
		return false
	}

	if _, err := netip.ParseAddr(strings.TrimSpace(left)); err == nil {
		return true
	}
	if _, err := netip.ParseAddr(strings.TrimSpace(right)); err == nil {
		return true
	}

	return false
}

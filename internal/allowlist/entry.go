// Package allowlist implements referrer/IP allow-list matching for the
// protection layer. Entries are configured as raw strings and interpreted as
// exact hosts, domain suffixes, CIDR blocks, or inclusive hyphenated IP ranges.
package allowlist

import (
	"net/netip"
	"strings"

	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
)

// Kind identifies how an allow-list entry is interpreted during matching.
type Kind string

const (
	// KindExact matches the referrer host verbatim (hostname or IP literal).
	KindExact Kind = "exact"

	// KindDomainSuffix matches the bare domain and any subdomain under it.
	KindDomainSuffix Kind = "domain_suffix"

	// KindCIDR matches IP-literal hosts contained in a network block.
	KindCIDR Kind = "cidr"

	// KindRange matches IP-literal hosts within an inclusive address range.
	KindRange Kind = "range"
)

// Entry is a parsed allow-list entry. Parsing happens at configuration
// validation time; matching at request time never needs to reject entries.
type Entry struct {
	Raw  string
	Kind Kind

	// Prefix is set for KindCIDR entries.
	Prefix netip.Prefix

	// RangeStart and RangeEnd are set for KindRange entries, both inclusive.
	RangeStart netip.Addr
	RangeEnd   netip.Addr
}

// ParseEntry interprets a raw allow-list string. Malformed CIDR blocks and
// ranges are rejected here, at validation time, so that request-time matching
// can simply skip anything that does not parse.
func ParseEntry(raw string) (Entry, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Entry{}, apperrors.Wrap(apperrors.ErrInvalidInput, "empty allowlist entry")
	}

	if strings.Contains(s, "/") {
		prefix, err := netip.ParsePrefix(s)
		if err != nil {
			return Entry{}, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid CIDR entry "+s)
		}
		return Entry{Raw: s, Kind: KindCIDR, Prefix: prefix}, nil
	}

	if start, end, ok := splitRange(s); ok {
		if start.Is4() != end.Is4() {
			return Entry{}, apperrors.Wrap(
				apperrors.ErrInvalidInput, "range endpoints have mixed address families: "+s)
		}
		if start.Compare(end) > 0 {
			return Entry{}, apperrors.Wrap(
				apperrors.ErrInvalidInput, "range start is greater than range end: "+s)
		}
		return Entry{Raw: s, Kind: KindRange, RangeStart: start, RangeEnd: end}, nil
	}

	if _, err := netip.ParseAddr(s); err == nil {
		return Entry{Raw: s, Kind: KindExact}, nil
	}

	return Entry{Raw: s, Kind: KindDomainSuffix}, nil
}

// splitRange splits a hyphenated entry once and reports whether both halves
// parse as IP literals. Hostnames containing hyphens are not ranges.
func splitRange(s string) (netip.Addr, netip.Addr, bool) {
	left, right, found := strings.Cut(s, "-")
	if !found {
		return netip.Addr{}, netip.Addr{}, false
	}

	start, err := netip.ParseAddr(strings.TrimSpace(left))
	if err != nil {
		return netip.Addr{}, netip.Addr{}, false
	}

	end, err := netip.ParseAddr(strings.TrimSpace(right))
	if err != nil {
		return netip.Addr{}, netip.Addr{}, false
	}

	return start, end, true
}

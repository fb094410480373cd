package allowlist

import (
	"net/netip"
	"net/url"
	"strings"
)

// HostFromReferrer extracts the bare host (no scheme, port, or path) from a
// referrer/origin string. Returns "" when no host can be determined.
func HostFromReferrer(referrer string) string {
	referrer = strings.TrimSpace(referrer)
	if referrer == "" {
		return ""
	}

	u, err := url.Parse(referrer)
	if err != nil {
		return ""
	}

	return u.Hostname()
}

// IsReferrerAllowed reports whether the referrer's host matches any configured
// allow-list entry. Entries are tried in order with short-circuit on the first
// positive match; each entry is checked as exact host, domain suffix (only when
// the host is not an IP literal), CIDR block, then hyphenated range.
//
// Every failure mode denies: empty or unparseable hosts, entries that do not
// parse, and address-family mismatches all evaluate to no-match rather than
// error. The caller never sees a reason, only the decision.
func IsReferrerAllowed(referrer string, entries []string) bool {
	host := HostFromReferrer(referrer)
	if host == "" {
		return false
	}

	hostIP, hostIsIP := parseHostIP(host)

	for _, raw := range entries {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}

		if entry == host {
			return true
		}

		if !hostIsIP && matchDomainSuffix(host, entry) {
			return true
		}

		if !hostIsIP {
			continue
		}

		if strings.Contains(entry, "/") && matchCIDR(hostIP, entry) {
			return true
		}

		if strings.Contains(entry, "-") && matchRange(hostIP, entry) {
			return true
		}
	}

	return false
}

// parseHostIP parses a host as an IP literal, unmapping 4-in-6 forms so that
// family comparisons against configured entries behave as expected.
func parseHostIP(host string) (netip.Addr, bool) {
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	if ip.Is4In6() {
		ip = ip.Unmap()
	}
	return ip, true
}

// matchDomainSuffix implements the domain pattern rules: a leading-dot entry
// (".example.com") matches the bare domain and any subdomain strictly under
// it; an entry without a leading dot ("example.com") matches the bare domain
// or any subdomain.
func matchDomainSuffix(host, entry string) bool {
	if strings.ContainsAny(entry, "/") {
		return false
	}

	bare := strings.TrimPrefix(entry, ".")
	if bare == "" {
		return false
	}

	return host == bare || strings.HasSuffix(host, "."+bare)
}

// matchCIDR reports whether an IP-literal host is contained in the entry's
// network. Parse failure evaluates false, not error.
func matchCIDR(host netip.Addr, entry string) bool {
	prefix, err := netip.ParsePrefix(entry)
	if err != nil {
		return false
	}
	return prefix.Contains(host)
}

// matchRange reports whether an IP-literal host satisfies start <= host <= end
// for a hyphenated entry. Both bounds are inclusive; the host must be in the
// same address family as the range.
func matchRange(host netip.Addr, entry string) bool {
	start, end, ok := splitRange(entry)
	if !ok {
		return false
	}

	if start.Is4() != end.Is4() || start.Is4() != host.Is4() {
		return false
	}

	return start.Compare(host) <= 0 && host.Compare(end) <= 0
}

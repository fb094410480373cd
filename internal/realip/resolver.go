// Package realip resolves the real client address of requests arriving
// through a CDN or reverse proxy, and classifies referrers against the
// configured CDN domain.
package realip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Forwarded-IP headers consulted during resolution, in trust order.
const (
	// HeaderCFConnectingIP is the CDN-specific forwarded-IP header. Only
	// consulted when the resolver is configured to trust the CDN.
	HeaderCFConnectingIP = "CF-Connecting-IP"

	// HeaderXForwardedFor is the generic comma-separated proxy chain header.
	HeaderXForwardedFor = "X-Forwarded-For"
)

// Resolver produces the single most-trustworthy client address for a request.
// It is a pure function of the header set, the transport peer address, and
// two feature flags; it holds no state.
type Resolver struct {
	// TrustCDNHeader enables the CDN-specific header as the highest-priority
	// source. Without it the header is ignored entirely, since anyone can
	// send it when the service is not actually behind the CDN.
	TrustCDNHeader bool

	// StrictSyntaxCheck requires forwarded header values to parse as IPv4 or
	// IPv6 literals; non-parsing values cause fall-through to the next tier.
	StrictSyntaxCheck bool
}

// Resolve returns the client address using the priority: trusted CDN header,
// first X-Forwarded-For entry, then the transport peer address. The peer
// address is the hard fallback and is never syntax-validated.
func (r Resolver) Resolve(header http.Header, remoteAddr string) string {
	if r.TrustCDNHeader {
		if ip := r.headerCandidate(header.Get(HeaderCFConnectingIP)); ip != "" {
			return ip
		}
	}

	if xff := header.Get(HeaderXForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := r.headerCandidate(first); ip != "" {
			return ip
		}
	}

	return peerAddr(remoteAddr)
}

// headerCandidate trims a forwarded header value and applies the optional
// syntax check. Returns "" when the tier should be skipped.
func (r Resolver) headerCandidate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if r.StrictSyntaxCheck && !IsValidIP(value) {
		return ""
	}
	return value
}

// peerAddr strips the port and IPv6 brackets from a transport address.
// "192.0.2.1:8080" and "[::1]:8080" both reduce to the bare address.
func peerAddr(remoteAddr string) string {
	remoteAddr = strings.TrimSpace(remoteAddr)
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return strings.Trim(remoteAddr, "[]")
}

// IsValidIP reports whether a string is a syntactically valid IPv4 or IPv6
// literal. Empty strings are invalid.
func IsValidIP(s string) bool {
	_, err := netip.ParseAddr(strings.TrimSpace(s))
	return err == nil
}

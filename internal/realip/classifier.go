package realip

import (
	"strings"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/allowlist"
)

// ValidationType labels how a referrer was judged trustworthy.
type ValidationType string

const (
	// ValidationCloudflareCDN means the referrer host matched the configured
	// CDN domain (exact or subdomain).
	ValidationCloudflareCDN ValidationType = "cloudflare_cdn"

	// ValidationTraditional means the referrer passed the general allow-list.
	ValidationTraditional ValidationType = "traditional"

	// ValidationInvalid means neither check accepted the referrer.
	ValidationInvalid ValidationType = "invalid"
)

// Classification is the audit-facing result of referrer validation. The raw
// host is retained for access logging alongside the decision.
type Classification struct {
	IsValid bool
	Type    ValidationType
	Host    string
}

// Classifier checks referrers first against a single trusted CDN domain and
// only then against the general allow-list.
type Classifier struct {
	// CDNDomain is the trusted CDN domain; empty disables the CDN tier.
	CDNDomain string

	// AllowedEntries is the general referrer allow-list, in raw entry form.
	AllowedEntries []string
}

// Classify validates a referrer and reports which tier accepted it. CDN
// matching is exact-or-subdomain on the host only; the allow-list tier applies
// the full exact/suffix/CIDR/range matching rules.
func (c Classifier) Classify(referrer string) Classification {
	host := allowlist.HostFromReferrer(referrer)

	if c.CDNDomain != "" && host != "" {
		if host == c.CDNDomain || strings.HasSuffix(host, "."+c.CDNDomain) {
			return Classification{IsValid: true, Type: ValidationCloudflareCDN, Host: host}
		}
	}

	if allowlist.IsReferrerAllowed(referrer, c.AllowedEntries) {
		return Classification{IsValid: true, Type: ValidationTraditional, Host: host}
	}

	return Classification{IsValid: false, Type: ValidationInvalid, Host: host}
}

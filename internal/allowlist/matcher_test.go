package allowlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostFromReferrer(t *testing.T) {
	tests := []struct {
		name     string
		referrer string
		want     string
	}{
		{"HTTPWithPath", "http://10.0.0.50/app", "10.0.0.50"},
		{"HTTPSWithSubdomain", "https://app.example.com/x", "app.example.com"},
		{"WithPort", "https://example.com:8443/x", "example.com"},
		{"IPv6Bracketed", "http://[2001:db8::1]:8080/", "2001:db8::1"},
		{"Empty", "", ""},
		{"Whitespace", "   ", ""},
		{"NoHost", "/relative/path", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HostFromReferrer(tt.referrer))
		})
	}
}

func TestIsReferrerAllowed(t *testing.T) {
	tests := []struct {
		name     string
		referrer string
		entries  []string
		want     bool
	}{
		// CIDR matching
		{"CIDRContains", "http://10.0.0.50/app", []string{"10.0.0.0/24"}, true},
		{"CIDROutside", "http://10.0.1.50/app", []string{"10.0.0.0/24"}, false},

		// Inclusive hyphenated range
		{"RangeLowerBound", "http://192.168.1.1/app", []string{"192.168.1.1-192.168.1.100"}, true},
		{"RangeUpperBound", "http://192.168.1.100/app", []string{"192.168.1.1-192.168.1.100"}, true},
		{"RangeInside", "http://192.168.1.50/app", []string{"192.168.1.1-192.168.1.100"}, true},
		{"RangeOutside", "http://192.168.1.101/app", []string{"192.168.1.1-192.168.1.100"}, false},

		// Domain matching
		{"SubdomainOfBareEntry", "https://app.example.com/x", []string{"example.com"}, true},
		{"BareDomainOfBareEntry", "https://example.com/x", []string{"example.com"}, true},
		{"UnrelatedDomain", "https://evil.com/x", []string{"example.com"}, false},
		{"SuffixNotSubdomain", "https://notexample.com/x", []string{"example.com"}, false},
		{"LeadingDotMatchesBare", "https://example.com/x", []string{".example.com"}, true},
		{"LeadingDotMatchesSubdomain", "https://a.example.com/x", []string{".example.com"}, true},
		{"LeadingDotUnrelated", "https://evilexample.com/x", []string{".example.com"}, false},

		// Exact matching
		{"ExactHost", "https://docs.internal/x", []string{"docs.internal"}, true},
		{"ExactIP", "http://192.168.1.7/", []string{"192.168.1.7"}, true},

		// IP hosts never domain-suffix match
		{"IPHostNoSuffixMatch", "http://10.0.0.50/", []string{"0.50"}, false},

		// Fail closed
		{"EmptyReferrer", "", []string{"example.com"}, false},
		{"EmptyEntries", "https://example.com/x", nil, false},
		{"MalformedEntrySkipped", "http://10.0.0.50/", []string{"not/a/cidr", "10.0.0.0/24"}, true},
		{"FamilyMismatchRange", "http://10.0.0.50/", []string{"2001:db8::1-2001:db8::ff"}, false},

		// IPv6
		{"IPv6CIDR", "http://[2001:db8::5]/", []string{"2001:db8::/32"}, true},
		{"IPv6Range", "http://[2001:db8::5]/", []string{"2001:db8::1-2001:db8::ff"}, true},

		// Entries with surrounding whitespace are trimmed
		{"TrimmedEntry", "https://example.com/x", []string{"  example.com  "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReferrerAllowed(tt.referrer, tt.entries))
		})
	}
}

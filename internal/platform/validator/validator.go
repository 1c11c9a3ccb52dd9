// internal/platform/validator/validator.go
package validator

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

var domainRegex = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?$`)

// IsDomain reports whether a string is a valid domain name.
// Accepts internationalized domains in punycode form.
func IsDomain(domain string) bool {
	if len(domain) == 0 || len(domain) > 253 {
		return false
	}

	if !domainRegex.MatchString(domain) {
		return false
	}

	// An IP is not a domain
	if net.ParseIP(domain) != nil {
		return false
	}

	return true
}

// IsIP reports whether a string is a valid IP address (v4 or v6).
func IsIP(ip string) bool {
	return net.ParseIP(ip) != nil
}

// IsSubdomain reports whether subdomain is a proper subdomain of baseDomain.
func IsSubdomain(subdomain, baseDomain string) bool {
	subdomain = NormalizeDomain(subdomain)
	baseDomain = NormalizeDomain(baseDomain)

	if subdomain == baseDomain {
		return false
	}

	return strings.HasSuffix(subdomain, "."+baseDomain)
}

// NormalizeDomain normalizes a domain to its canonical form.
func NormalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	domain = strings.TrimSuffix(domain, ".")
	domain = strings.TrimPrefix(domain, "*.")
	domain = strings.TrimPrefix(domain, "www.")
	return domain
}

// NormalizeURL lowercases the host portion of a URL and trims whitespace.
// The path and query are left as-is since they may be case sensitive.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String()
}

// RegistrableDomain returns the eTLD+1 for a host, falling back to the
// normalized input when the public suffix list has no answer.
func RegistrableDomain(host string) string {
	host = NormalizeDomain(host)
	if host == "" || net.ParseIP(host) != nil {
		return host
	}

	base, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return base
}

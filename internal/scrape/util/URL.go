package util

import (
	"net/url"
	"sort"
	"strings"
)

var codeHosts = map[string]bool{
	"github.com":     true,
	"www.github.com": true,
}

// CanonicalizeURL lowercases scheme and host, drops the fragment, tracking
// params and a trailing slash so the same site keys the same way.
func CanonicalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(strings.TrimPrefix(strings.ToLower(u.Host), "www."))
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") ||
			lk == "gclid" || lk == "fbclid" || lk == "msclkid" ||
			lk == "ref" || lk == "mc_cid" || lk == "mc_eid" {
			q.Del(k)
		}
	}

	// deterministic query
	for k := range q {
		vals := q[k]
		sort.Strings(vals)
		q[k] = vals
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Host returns the lowercased hostname of raw, or "".
func Host(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// IsCodeHost reports whether raw points at a code-hosting site whose
// repositories can be mined for commit emails.
func IsCodeHost(raw string) bool {
	return codeHosts[Host(raw)]
}

// Absolutize resolves href against base. Absolute hrefs are returned as is.
func Absolutize(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}
	b, err := url.Parse(strings.TrimSpace(base))
	if err != nil || b.Host == "" {
		return ""
	}
	return b.ResolveReference(ref).String()
}

// JoinURL appends a configured endpoint path to a base URL. Endpoints that
// are already absolute are used as is.
func JoinURL(base, endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if u, err := url.Parse(endpoint); err == nil && u.IsAbs() {
		return endpoint
	}
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if endpoint == "" {
		return base
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return base + endpoint
}

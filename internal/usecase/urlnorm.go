package usecase

import (
	"net/url"
	"sort"
	"strings"
)

// Tracking query parameters stripped before URL comparison. Click-id and
// utm_* families carry no identity signal and differ per visit.
var trackingParams = map[string]bool{
	"gclid":        true,
	"fbclid":       true,
	"dclid":        true,
	"msclkid":      true,
	"srsltid":      true,
	"ref":          true,
	"ref_":         true,
	"tag":          true,
	"crid":         true,
	"qid":          true,
	"sr":           true,
	"sprefix":      true,
	"dib":          true,
	"dib_tag":      true,
	"aref":         true,
	"th":           true,
	"nsbp":         true,
	"currencycode": true,
}

// URL match outcomes, strongest first.
const (
	urlMatchExact  = "exact"
	urlMatchPrefix = "path_prefix"
	urlMatchNone   = ""
)

// normalizedURL is the canonical (host, path, query) triple used for
// comparing product URLs across storefront link formats.
type normalizedURL struct {
	Host  string
	Path  string
	Query string
}

// normalizeURL canonicalizes a URL for identity comparison: lowercase host,
// no www. prefix, percent-decoded path, collapsed duplicate slashes, no
// trailing slash, tracking parameters removed and the remaining query
// sorted. Returns ok=false for unparsable or hostless input.
func normalizeURL(raw string) (normalizedURL, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return normalizedURL{}, false
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	path := u.EscapedPath()
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	path = strings.TrimSuffix(path, "/")

	q := u.Query()
	kept := make([]string, 0, len(q))
	for key, vals := range q {
		if isTrackingParam(key) {
			continue
		}
		for _, v := range vals {
			kept = append(kept, key+"="+v)
		}
	}
	sort.Strings(kept)

	return normalizedURL{Host: host, Path: path, Query: strings.Join(kept, "&")}, true
}

func isTrackingParam(key string) bool {
	key = strings.ToLower(key)
	return trackingParams[key] || strings.HasPrefix(key, "utm_")
}

// urlsMatch compares two URLs after canonicalization. "exact" requires the
// same (host, path, query) triple; "path_prefix" means one path extends the
// other on a segment boundary (same host), e.g. /shirt/123 vs /shirt/123/buy.
func urlsMatch(a, b string) string {
	na, okA := normalizeURL(a)
	nb, okB := normalizeURL(b)
	if !okA || !okB || na.Host != nb.Host {
		return urlMatchNone
	}

	if na.Path == nb.Path && na.Query == nb.Query {
		return urlMatchExact
	}

	shorter, longer := na.Path, nb.Path
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if shorter != "" && strings.HasPrefix(longer, shorter+"/") {
		return urlMatchPrefix
	}
	return urlMatchNone
}

// urlHostPath extracts the lowercase host (no www.) and path from a raw
// URL, for trust tagging. Empty strings when unparsable.
func urlHostPath(raw string) (host, path string) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ""
	}
	host = strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	return host, u.Path
}

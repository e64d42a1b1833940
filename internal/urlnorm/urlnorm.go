// Package urlnorm resolves and canonicalises URLs discovered on a crawled
// page: relative references are made absolute against the page they were
// found on, tracking query parameters are stripped, and fragments are
// dropped so that /page#section and /page are treated as one URL.
package urlnorm

import (
	"net/url"
	"strings"

	"github.com/dastarruer/search-engine/internal/crawlerr"
)

// isPassiveParam reports whether a query key never changes what a page
// shows, only how the visit is attributed; such keys are stripped before a
// URL is considered for the frontier.
func isPassiveParam(key string) bool {
	if strings.Contains(key, "utm") {
		return true
	}
	return key == "id" || key == "t"
}

// Resolve turns href (absolute or relative) into an absolute, normalised
// URL string relative to base. It strips passive query parameters and any
// fragment, and lower-cases the host while leaving the rest of the URL,
// including the order of the remaining query parameters, untouched. It returns crawlerr.InvalidDomain if the resolved URL has no
// host.
func Resolve(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", crawlerr.New(crawlerr.InvalidDomain, href).WithDetail(err.Error())
	}

	resolved := base.ResolveReference(ref)
	return Normalize(resolved)
}

// Normalize strips passive query parameters and the fragment from an
// already-absolute URL, lower-casing its host.
func Normalize(u *url.URL) (string, error) {
	if u.Host == "" {
		return "", crawlerr.New(crawlerr.InvalidDomain, u.String())
	}

	clean := *u
	clean.Host = strings.ToLower(clean.Host)
	clean.Fragment = ""
	clean.RawFragment = ""

	if clean.RawQuery != "" {
		var kept []string
		for _, pair := range strings.Split(clean.RawQuery, "&") {
			if pair == "" {
				continue
			}
			key, _, _ := strings.Cut(pair, "=")
			if unescaped, err := url.QueryUnescape(key); err == nil {
				key = unescaped
			}
			if !isPassiveParam(key) {
				kept = append(kept, pair)
			}
		}
		clean.RawQuery = strings.Join(kept, "&")
	}

	return clean.String(), nil
}

// Domain returns the lower-cased host of rawURL, or InvalidDomain if it
// cannot be parsed or has no host.
func Domain(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", crawlerr.New(crawlerr.InvalidDomain, rawURL)
	}
	return strings.ToLower(u.Host), nil
}

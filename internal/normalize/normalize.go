// Package normalize canonicalizes URLs into the stable form used as
// frontier and index keys.
package normalize

import (
	"net/url"
	"regexp"
	"strings"
)

var multiSlash = regexp.MustCompile(`/{2,}`)

// maxURLLength is the longest canonical URL Normalize will accept.
const maxURLLength = 2048

// Normalize resolves raw against base (if raw is relative) and returns
// the canonical form, or ok=false if raw cannot be turned into a usable
// http(s) URL.
//
// Canonicalization: lowercase scheme and host, strip the default port
// for the scheme, collapse repeated path slashes, drop an empty path to
// "/", strip the fragment, and reject hosts that are not pure ASCII or
// URLs longer than 2048 characters.
func Normalize(raw, base string) (string, bool) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", false
	}

	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}

	resolved := baseURL.ResolveReference(ref)
	return canonicalize(resolved)
}

func canonicalize(u *url.URL) (string, bool) {
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	if host == "" || !isASCII(host) {
		return "", false
	}

	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}

	path := multiSlash.ReplaceAllString(u.EscapedPath(), "/")
	if path == "" {
		path = "/"
	}

	out := url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     path,
		RawQuery: u.RawQuery,
	}
	if port != "" {
		out.Host = host + ":" + port
	}

	result := out.String()
	if len(result) > maxURLLength {
		return "", false
	}

	return result, true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}

// Host returns the lowercase host of a normalized URL, or "" if
// rawURL cannot be parsed.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

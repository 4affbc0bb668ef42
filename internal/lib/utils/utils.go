// Package utils contains small helper functions used across the project.
package utils

import (
	"net/url"
	"strings"
)

// ParseURLOrDefault parses raw as an absolute http(s) URL. When raw is empty,
// unparseable, relative, or uses another scheme, a copy of def is returned.
//
// The result is always a fresh *url.URL the caller may mutate.
func ParseURLOrDefault(raw string, def *url.URL) *url.URL {
	if u, ok := parseHTTPURL(raw); ok {
		return u
	}
	return CloneURL(def)
}

func parseHTTPURL(raw string) (*url.URL, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, false
	}

	if u.Host == "" {
		return nil, false
	}

	return u, true
}

// CloneURL returns a deep copy of u.
func CloneURL(u *url.URL) *url.URL {
	if u == nil {
		return &url.URL{}
	}
	clone := *u
	if u.User != nil {
		user := *u.User
		clone.User = &user
	}
	return &clone
}

// SetQueryParam sets key to value in rawQuery. The first pair named key is
// replaced in place and any later ones are removed; with no such pair the
// new one is appended. Every other pair is kept byte for byte, including
// pairs that do not decode.
func SetQueryParam(rawQuery, key, value string) string {
	pair := url.QueryEscape(key) + "=" + url.QueryEscape(value)

	parts := strings.Split(rawQuery, "&")
	out := make([]string, 0, len(parts)+1)
	replaced := false
	for _, part := range parts {
		switch {
		case part == "":
		case queryKey(part) != key:
			out = append(out, part)
		case !replaced:
			out = append(out, pair)
			replaced = true
		}
	}
	if !replaced {
		out = append(out, pair)
	}

	return strings.Join(out, "&")
}

// queryKey returns the decoded key of one "k=v" pair, or the raw key when
// it does not decode.
func queryKey(pair string) string {
	key, _, _ := strings.Cut(pair, "=")
	if decoded, err := url.QueryUnescape(key); err == nil {
		return decoded
	}
	return key
}

// Package netx holds URL helpers shared by the API client and the request
// pipeline.
package netx

import (
	"fmt"
	"net/url"
	"strings"
)

// JoinURL appends path segments to base, collapsing duplicate slashes at the
// joins. Query strings in base are preserved.
//
//	JoinURL("http://api:8080/", "v1", "/auth/login") // http://api:8080/v1/auth/login
func JoinURL(base string, parts ...string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url %q: %w", base, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base url %q must be absolute", base)
	}
	elems := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			elems = append(elems, p)
		}
	}
	return u.JoinPath(elems...).String(), nil
}

// PathOf returns the path component of raw, or raw itself when it does not
// parse as a URL.
func PathOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Path
}

// PathContainsAny reports whether the path of raw contains any of fragments.
func PathContainsAny(raw string, fragments []string) bool {
	p := PathOf(raw)
	for _, f := range fragments {
		if strings.Contains(p, f) {
			return true
		}
	}
	return false
}

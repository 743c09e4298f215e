package domain

import (
	"net/url"
	"strings"
)

// ValidateURL checks that raw is a well-formed absolute URL.
// Hierarchical (https://host/path), host-less (file:///path) and opaque
// (mailto:x) forms are accepted. Web URLs must name a host.
func ValidateURL(field, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return &ValidationError{Field: field, Reason: "url is required"}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return &ValidationError{Field: field, Value: raw, Reason: "malformed url"}
	}
	if u.Scheme == "" {
		return &ValidationError{Field: field, Value: raw, Reason: "url must be absolute"}
	}
	if isWebScheme(u.Scheme) && u.Host == "" {
		return &ValidationError{Field: field, Value: raw, Reason: "url has no host"}
	}
	return nil
}

func isWebScheme(scheme string) bool {
	return strings.EqualFold(scheme, "http") || strings.EqualFold(scheme, "https")
}

// Hostname returns the host part of raw, or raw itself when it cannot be parsed.
func Hostname(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}

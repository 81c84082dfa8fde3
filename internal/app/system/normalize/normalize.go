// Package normalize provides helper functions for consistent string normalization
// across the application. Use these helpers instead of scattered strings.ToLower
// and strings.TrimSpace calls to ensure consistent behavior.
package normalize

import (
	"regexp"
	"strings"
)

// usernameRe is the shape a public profile handle must have: 3–20 chars of
// lowercase letters, digits, and underscores.
var usernameRe = regexp.MustCompile(`^[a-z0-9_]{3,20}$`)

// Email normalizes an email address by trimming whitespace and converting to lowercase.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Username normalizes a public profile handle for storage and lookup.
func Username(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsUsernameValid reports whether a normalized username is acceptable.
func IsUsernameValid(s string) bool {
	return usernameRe.MatchString(s)
}

// Identity normalizes a platform username/handle. Platforms are
// case-preserving, so only surrounding whitespace is stripped; comparisons
// against cached identities are done case-insensitively at the cache layer.
func Identity(s string) string {
	return strings.TrimSpace(s)
}

// QueryParam normalizes a query parameter by trimming whitespace.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// ValidateOrigin validates the origin part of a share link.
//
// An origin is scheme and host with no path, query or fragment:
//   - Must not be empty
//   - Scheme must be http or https
//   - Host must be present
//   - No trailing slash, path, query or fragment
func ValidateOrigin(origin string) error {
	if origin == "" {
		return New(ErrCodeInvalidOrigin, "origin cannot be empty")
	}

	if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
		return New(ErrCodeInvalidOrigin, "origin must use http or https scheme: %q", origin)
	}

	u, err := url.Parse(origin)
	if err != nil {
		return Wrap(ErrCodeInvalidOrigin, err, "parse origin %q", origin)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidOrigin, "origin has no host: %q", origin)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" || strings.HasSuffix(origin, "/") {
		return New(ErrCodeInvalidOrigin, "origin must not carry a path, query or fragment: %q", origin)
	}

	return nil
}

// ValidatePath validates the page path of a share link.
//
// Validation rules:
//   - Path cannot be empty
//   - Must be absolute (start with /)
//   - Maximum length of 500 characters
//   - No control characters
//   - No query or fragment markers
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if !strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must start with /")
	}

	if strings.ContainsAny(path, "?#") {
		return New(ErrCodeInvalidPath, "path cannot contain a query or fragment")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// shortIDRegex matches short link identifiers (lowercase hex).
var shortIDRegex = regexp.MustCompile(`^[0-9a-f]{12}$`)

// ValidateShortID validates a short link identifier.
func ValidateShortID(id string) error {
	if !shortIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid short link id: %q", id)
	}
	return nil
}

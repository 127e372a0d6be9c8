package errors

import (
	"strings"
	"unicode"
)

// MaxNodeNameLength bounds the display name of a user-sketched node.
const MaxNodeNameLength = 256

// ValidateNodeName validates the display name of a planned node.
//
// The rules are conservative:
//   - No empty or whitespace-only names
//   - No control characters (names end up in DOT labels and terminal output)
//   - Maximum length of MaxNodeNameLength characters
func ValidateNodeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "node name cannot be empty")
	}

	if len(name) > MaxNodeNameLength {
		return New(ErrCodeInvalidInput, "node name too long (max %d characters)", MaxNodeNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node name contains invalid control characters")
		}
	}

	return nil
}

// ValidateNodeID validates a node identifier received from a host event.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	for _, r := range id {
		if r == '\x00' {
			return New(ErrCodeInvalidInput, "node id contains a null byte")
		}
	}
	return nil
}

// ValidatePath validates a raw-data file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a scheme accepted by the raw-data sources.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	for _, scheme := range []string{"mongodb://", "mongodb+srv://", "redis://", "rediss://"} {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "unsupported URL scheme: %q", rawURL)
}

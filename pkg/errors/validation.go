package errors

import (
	"strings"
	"unicode"
)

// maxThreadNameLength bounds SOURCENAME values.
const maxThreadNameLength = 256

// ValidateThreadName validates a thread (source sequence) name.
//
// Names end up as leaf labels in every output format, so the rules are
// conservative:
//   - No empty names
//   - No whitespace (the text output is space separated)
//   - No control characters
//   - No Newick metacharacters: ( ) , : ; [ ]
//   - Maximum length of 256 characters
func ValidateThreadName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "thread name cannot be empty")
	}

	if len(name) > maxThreadNameLength {
		return New(ErrCodeInvalidName, "thread name too long (max %d characters)", maxThreadNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "thread name contains invalid control characters")
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidName, "thread name %q contains whitespace", name)
		}
	}

	if i := strings.IndexAny(name, "(),:;[]"); i >= 0 {
		return New(ErrCodeInvalidName, "thread name %q contains invalid character %q", name, name[i])
	}

	return nil
}

// ValidateRedisURL validates a redis connection URL.
// It ensures the URL uses the redis or rediss (TLS) scheme.
func ValidateRedisURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "redis URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "redis://") && !strings.HasPrefix(rawURL, "rediss://") {
		return New(ErrCodeInvalidURL, "redis URL must use redis or rediss scheme")
	}

	return nil
}

// Package utils provides utility functions for the application.
package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ParseUUID parses a UUID string, returning a descriptive error for bad input.
func ParseUUID(s string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid UUID %q: %w", s, err)
	}
	return parsed, nil
}

func ToPtr[T any](v T) *T {
	return &v
}

func IsTrue(b *bool) bool {
	return b != nil && *b
}

// Deref returns the pointed-to value or the zero value for nil.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// BoolString renders a bool as the wire strings "true"/"false".
func BoolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

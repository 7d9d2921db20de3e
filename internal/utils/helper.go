package utils

import (
	"strings"

	"github.com/google/uuid"
)

// ParseOptionalUUID parses s, treating blank input as "not provided".
func ParseOptionalUUID(s string) (uuid.UUID, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, false, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false, err
	}
	return id, true, nil
}

// NormalizeEmail lowercases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

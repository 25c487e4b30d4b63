// Package util provides small string helpers for host arguments.
package util

import (
	"strconv"
	"strings"
)

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// FixEscapeQuotes replaces escaped double quotes ("") with single double quotes (").
func FixEscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

// CleanArg undoes the host's string quoting: outer quotes are removed and
// doubled inner quotes collapsed.
func CleanArg(s string) string {
	return FixEscapeQuotes(TrimQuotes(strings.TrimSpace(s)))
}

// IsNullJSON reports whether s carries no JSON value. The host sends an
// empty string, "null", "nil" or "[]" for a missing object.
func IsNullJSON(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "null", "nil", "[]", "{}":
		return true
	}
	return false
}

// ParseFlag parses a boolean argument. Besides the strconv forms it
// accepts "yes"/"no" in any case. Anything else is an error.
func ParseFlag(s string) (bool, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "yes":
		return true, nil
	case "no", "":
		return false, nil
	}
	return strconv.ParseBool(s)
}

package record

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spreadingweeds/extension/pkg/core"
)

const (
	// DefaultNamespace prefixes every key this module writes.
	DefaultNamespace = "spreadingweeds"
	// SchemaVersion is the earliest version the stored values are compatible with.
	SchemaVersion = "1.0.0"

	sentinelSuffix = "HasSpreadingDebris"
	// SentinelValue is stored under the sentinel key.
	SentinelValue = "true"
)

// Key addresses one record inside a location.
type Key struct {
	Day  int
	Tile core.TilePos
}

// Format renders the key as "{namespace}/{version}/{day}/{x}/{y}".
func (k Key) Format(namespace, version string) string {
	return fmt.Sprintf("%s/%s/%d/%d/%d", namespace, version, k.Day, k.Tile.X, k.Tile.Y)
}

// ParseKey is the inverse of Key.Format. The version segment is returned
// so callers can decide whether they understand the value.
func ParseKey(namespace, key string) (Key, string, error) {
	rest, ok := strings.CutPrefix(key, namespace+"/")
	if !ok {
		return Key{}, "", fmt.Errorf("key %q is outside namespace %q", key, namespace)
	}

	parts := strings.Split(rest, "/")
	if len(parts) != 4 {
		return Key{}, "", fmt.Errorf("key %q: expected 4 segments, got %d", key, len(parts))
	}

	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return Key{}, "", fmt.Errorf("error parsing day in %q: %w", key, err)
	}
	x, err := strconv.Atoi(parts[2])
	if err != nil {
		return Key{}, "", fmt.Errorf("error parsing x in %q: %w", key, err)
	}
	y, err := strconv.Atoi(parts[3])
	if err != nil {
		return Key{}, "", fmt.Errorf("error parsing y in %q: %w", key, err)
	}

	return Key{Day: day, Tile: core.TilePos{X: x, Y: y}}, parts[0], nil
}

// SentinelKey is the flag marking a location that has ever been damaged.
func SentinelKey(namespace string) string {
	return namespace + "/" + sentinelSuffix
}

// InNamespace reports whether key was written under namespace.
func InNamespace(namespace, key string) bool {
	return strings.HasPrefix(key, namespace+"/")
}

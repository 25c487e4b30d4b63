// internal/storage/storage.go
package storage

import "errors"

// ErrNotInitialized is returned by backends used before Init.
var ErrNotInitialized = errors.New("storage backend not initialized")

// Backend is a durable key/value store partitioned by location.
// Every implementation keeps reads local so Get and Keys never wait on
// the network.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	Get(location, key string) (string, bool, error)
	Set(location, key, value string) error
	Delete(location, key string) error

	// Keys returns every key stored for location, sorted.
	Keys(location string) ([]string, error)
	// Locations returns every location holding at least one key, sorted.
	Locations() ([]string, error)
}

// Flusher is implemented by backends that buffer writes.
type Flusher interface {
	Flush() error
}

// Flush persists pending writes when b buffers them.
func Flush(b Backend) error {
	if f, ok := b.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

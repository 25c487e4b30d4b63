// internal/storage/memory/memory.go
package memory

import (
	"sort"
	"sync"

	"github.com/spreadingweeds/extension/internal/config"
)

// Backend keeps location data in memory and snapshots it to a JSON file
// on Flush and Close. With an empty OutputDir nothing touches the disk.
type Backend struct {
	cfg  config.MemoryConfig
	data map[string]map[string]string
	mu   sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:  cfg,
		data: make(map[string]map[string]string),
	}
}

// Init loads the last snapshot, if any.
func (b *Backend) Init() error {
	if b.cfg.OutputDir == "" {
		return nil
	}

	snapshot, err := b.readSnapshot()
	if err != nil {
		return err
	}
	if snapshot != nil {
		b.Replace(snapshot.Locations)
	}
	return nil
}

// Close writes a final snapshot.
func (b *Backend) Close() error {
	return b.Flush()
}

// Flush writes the current contents to the snapshot file.
func (b *Backend) Flush() error {
	if b.cfg.OutputDir == "" {
		return nil
	}
	return b.writeSnapshot(b.Snapshot())
}

// Get returns the value stored under key.
func (b *Backend) Get(location, key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.data[location][key]
	return v, ok, nil
}

// Set stores value under key, overwriting any previous value.
func (b *Backend) Set(location, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries, ok := b.data[location]
	if !ok {
		entries = make(map[string]string)
		b.data[location] = entries
	}
	entries[key] = value
	return nil
}

// Delete removes key. Missing keys are not an error.
func (b *Backend) Delete(location, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries, ok := b.data[location]
	if !ok {
		return nil
	}
	delete(entries, key)
	if len(entries) == 0 {
		delete(b.data, location)
	}
	return nil
}

// Keys returns the sorted keys of location.
func (b *Backend) Keys(location string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.data[location]))
	for k := range b.data[location] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Locations returns the sorted names of non-empty locations.
func (b *Backend) Locations() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.data))
	for name := range b.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Snapshot returns a deep copy of all stored data.
func (b *Backend) Snapshot() map[string]map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]map[string]string, len(b.data))
	for loc, entries := range b.data {
		cp := make(map[string]string, len(entries))
		for k, v := range entries {
			cp[k] = v
		}
		out[loc] = cp
	}
	return out
}

// Replace swaps the stored data for a copy of data.
func (b *Backend) Replace(data map[string]map[string]string) {
	fresh := make(map[string]map[string]string, len(data))
	for loc, entries := range data {
		if len(entries) == 0 {
			continue
		}
		cp := make(map[string]string, len(entries))
		for k, v := range entries {
			cp[k] = v
		}
		fresh[loc] = cp
	}

	b.mu.Lock()
	b.data = fresh
	b.mu.Unlock()
}

// Location returns a copy of one location's entries.
func (b *Backend) Location(location string) map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	cp := make(map[string]string, len(b.data[location]))
	for k, v := range b.data[location] {
		cp[k] = v
	}
	return cp
}

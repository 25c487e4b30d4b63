package cache

import "sync"

// NameCache maps qualified item ids to resolved display names so report
// rebuilds during a day do not hit the registry again.
type NameCache struct {
	mu    sync.RWMutex
	names map[string]string
}

// NewNameCache creates a new NameCache
func NewNameCache() *NameCache {
	return &NameCache{
		names: make(map[string]string),
	}
}

// Get retrieves a display name by id
func (c *NameCache) Get(id string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.names[id]
	return name, ok
}

// Set stores a display name by id
func (c *NameCache) Set(id, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[id] = name
}

// Resolve returns the cached name for id, calling lookup on a miss.
// Failed lookups are not cached.
func (c *NameCache) Resolve(id string, lookup func(string) (string, error)) (string, error) {
	if name, ok := c.Get(id); ok {
		return name, nil
	}
	name, err := lookup(id)
	if err != nil {
		return "", err
	}
	c.Set(id, name)
	return name, nil
}

// Len returns the number of cached names
func (c *NameCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.names)
}

// Reset clears all names from the cache
func (c *NameCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = make(map[string]string)
}

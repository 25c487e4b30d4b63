package cache

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameCache_NewNameCache(t *testing.T) {
	cache := NewNameCache()

	require.NotNil(t, cache)
	assert.NotNil(t, cache.names)
	assert.Equal(t, 0, cache.Len())
}

func TestNameCache_SetAndGet(t *testing.T) {
	cache := NewNameCache()

	cache.Set("(O)24", "Parsnip")

	name, ok := cache.Get("(O)24")
	require.True(t, ok, "expected to find (O)24")
	assert.Equal(t, "Parsnip", name)

	_, ok = cache.Get("(O)25")
	assert.False(t, ok)
}

func TestNameCache_Resolve(t *testing.T) {
	cache := NewNameCache()
	calls := 0
	lookup := func(id string) (string, error) {
		calls++
		if id == "(O)bad" {
			return "", errors.New("unknown")
		}
		return "Name of " + id, nil
	}

	for i := 0; i < 3; i++ {
		name, err := cache.Resolve("(O)24", lookup)
		require.NoError(t, err)
		assert.Equal(t, "Name of (O)24", name)
	}
	assert.Equal(t, 1, calls)

	_, err := cache.Resolve("(O)bad", lookup)
	assert.Error(t, err)
	_, err = cache.Resolve("(O)bad", lookup)
	assert.Error(t, err)
	assert.Equal(t, 3, calls, "failed lookups are retried")
}

func TestNameCache_Reset(t *testing.T) {
	cache := NewNameCache()

	cache.Set("a", "A")
	cache.Set("b", "B")
	cache.Reset()

	assert.Equal(t, 0, cache.Len())
}

func TestNameCache_ConcurrentAccess(t *testing.T) {
	cache := NewNameCache()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cache.Set("(O)24", "Parsnip")
		}()
		go func() {
			defer wg.Done()
			cache.Get("(O)24")
		}()
	}
	wg.Wait()

	name, ok := cache.Get("(O)24")
	assert.True(t, ok)
	assert.Equal(t, "Parsnip", name)
}

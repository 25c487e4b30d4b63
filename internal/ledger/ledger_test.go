package ledger

import (
	"testing"

	"github.com/spreadingweeds/extension/internal/config"
	"github.com/spreadingweeds/extension/internal/record"
	"github.com/spreadingweeds/extension/internal/storage/memory"
	"github.com/spreadingweeds/extension/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBook(t *testing.T) (*Book, *memory.Backend) {
	t.Helper()
	backend := memory.New(config.MemoryConfig{})
	require.NoError(t, backend.Init())
	return NewBook(backend, config.LedgerConfig{}), backend
}

func key(day, x, y int) record.Key {
	return record.Key{Day: day, Tile: core.TilePos{X: x, Y: y}}
}

func TestPutEntries(t *testing.T) {
	book, backend := newTestBook(t)
	l := book.For("Farm")

	rec := core.DestructionRecord{DebrisKind: "Stone", Category: core.CategoryPlainEntity, ItemID: "(O)24"}
	require.NoError(t, l.Put(key(3, 10, 12), rec))

	raw, ok, err := backend.Get("Farm", "spreadingweeds/1.0.0/3/10/12")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Stone/(O)24", raw)

	entries, err := l.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, key(3, 10, 12), entries[0].Key)
	got, err := record.Decode(entries[0].Value)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestPut_LaterWriteWins(t *testing.T) {
	book, _ := newTestBook(t)
	l := book.For("Farm")

	require.NoError(t, l.Put(key(3, 1, 1), core.DestructionRecord{DebrisKind: "Stone", ItemID: "(O)24"}))
	require.NoError(t, l.Put(key(3, 1, 1), core.DestructionRecord{DebrisKind: "Weeds", ItemID: "(O)24"}))

	entries, err := l.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Weeds/(O)24", entries[0].Value)
}

func TestSentinel(t *testing.T) {
	book, _ := newTestBook(t)
	l := book.For("Farm")

	ok, err := l.HasDamage()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.MarkDamaged())
	require.NoError(t, l.MarkDamaged())

	ok, err = l.HasDamage()
	require.NoError(t, err)
	assert.True(t, ok)

	damaged, err := book.DamagedLocations()
	require.NoError(t, err)
	assert.Equal(t, []string{"Farm"}, damaged)
}

func TestEntries_SkipsSentinelForeignAndMalformedKeys(t *testing.T) {
	book, backend := newTestBook(t)
	l := book.For("Farm")

	require.NoError(t, l.MarkDamaged())
	require.NoError(t, backend.Set("Farm", "othermod/setting", "x"))
	require.NoError(t, backend.Set("Farm", "spreadingweeds/1.0.0/bad", "Stone/(O)24"))
	require.NoError(t, l.Put(key(3, 12, 10), core.DestructionRecord{DebrisKind: "Weeds", ItemID: "(O)24"}))
	require.NoError(t, l.Put(key(3, 10, 10), core.DestructionRecord{DebrisKind: "Stone", ItemID: "(O)24"}))
	require.NoError(t, l.Put(key(2, 50, 50), core.DestructionRecord{DebrisKind: "Twig", ItemID: "(O)24"}))

	entries, err := l.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, key(2, 50, 50), entries[0].Key)
	assert.Equal(t, key(3, 10, 10), entries[1].Key)
	assert.Equal(t, key(3, 12, 10), entries[2].Key)
	assert.Equal(t, "spreadingweeds/1.0.0/3/10/10", entries[1].StorageKey)
}

func TestClearDay_KeepsSentinelAndIsIdempotent(t *testing.T) {
	book, backend := newTestBook(t)
	l := book.For("Farm")

	require.NoError(t, l.MarkDamaged())
	require.NoError(t, backend.Set("Farm", "othermod/setting", "x"))
	require.NoError(t, l.Put(key(3, 1, 1), core.DestructionRecord{DebrisKind: "Stone", ItemID: "(O)24"}))
	require.NoError(t, l.Put(key(3, 2, 1), core.DestructionRecord{DebrisKind: "Stone", ItemID: "(O)24"}))

	removed, err := l.ClearDay()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	first, err := backend.Keys("Farm")
	require.NoError(t, err)

	removed, err = l.ClearDay()
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	second, err := backend.Keys("Farm")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"othermod/setting", "spreadingweeds/HasSpreadingDebris"}, second)
}

func TestClearAll(t *testing.T) {
	book, backend := newTestBook(t)
	l := book.For("Farm")

	require.NoError(t, l.MarkDamaged())
	require.NoError(t, backend.Set("Farm", "othermod/setting", "x"))
	require.NoError(t, l.Put(key(3, 1, 1), core.DestructionRecord{DebrisKind: "Stone", ItemID: "(O)24"}))

	removed, err := l.ClearAll()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	keys, err := backend.Keys("Farm")
	require.NoError(t, err)
	assert.Equal(t, []string{"othermod/setting"}, keys)

	locs, err := book.Locations()
	require.NoError(t, err)
	assert.Empty(t, locs)
}

func TestRaw(t *testing.T) {
	book, _ := newTestBook(t)
	l := book.For("Farm")

	require.NoError(t, l.MarkDamaged())
	require.NoError(t, l.Put(key(3, 1, 2), core.DestructionRecord{DebrisKind: "Stone", ItemID: "(O)24"}))

	raw, err := l.Raw()
	require.NoError(t, err)
	assert.Equal(t, []RawEntry{
		{Key: "1.0.0/3/1/2", Value: "Stone/(O)24"},
		{Key: "HasSpreadingDebris", Value: "true"},
	}, raw)
}

func TestNoBackend(t *testing.T) {
	book := NewBook(nil, config.LedgerConfig{})

	_, err := book.DamagedLocations()
	assert.ErrorIs(t, err, ErrNoBackend)
	assert.ErrorIs(t, book.For("Farm").MarkDamaged(), ErrNoBackend)
	_, err = book.For("Farm").Entries()
	assert.ErrorIs(t, err, ErrNoBackend)
}

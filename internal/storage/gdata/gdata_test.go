package gdatastorage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quasilyte/gdata/v2"
	"github.com/spreadingweeds/extension/internal/config"
	"github.com/spreadingweeds/extension/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface checks
var (
	_ storage.Backend = (*Backend)(nil)
	_ storage.Flusher = (*Backend)(nil)
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTestManager(t *testing.T, testName string) *gdata.Manager {
	t.Helper()
	appName := fmt.Sprintf("spreading_weeds_test_%s_%d", testName, time.Now().UnixNano())
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Skipf("save-data directory unavailable: %v", err)
	}

	t.Cleanup(func() {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			os.RemoveAll(filepath.Join(homeDir, ".local", "share", appName))
		}
	})
	return manager
}

func TestPropertyName(t *testing.T) {
	assert.Equal(t, "loc_4661726d", PropertyName("Farm"))
	assert.Regexp(t, `^loc_[0-9a-f]+$`, PropertyName("Custom Island/West"))

	names := []string{"Farm House", "Farm_House", "Farm/House", "farm house", "FarmHouse"}
	seen := map[string]string{}
	for _, name := range names {
		prop := PropertyName(name)
		other, dup := seen[prop]
		assert.False(t, dup, "%q and %q share %s", name, other, prop)
		seen[prop] = name
	}
}

func TestFlushAndReload_SimilarNamesStaySeparate(t *testing.T) {
	manager := createTestManager(t, "similar")

	b := NewWithManager(manager, quietLogger())
	require.NoError(t, b.Init())
	require.NoError(t, b.Set("Farm House", "spreadingweeds/1.0.0/5/1/1", "Stone/(O)24"))
	require.NoError(t, b.Set("Farm_House", "spreadingweeds/1.0.0/5/9/9", "Weeds/(O)343"))
	require.NoError(t, b.Close())

	reloaded := NewWithManager(manager, quietLogger())
	require.NoError(t, reloaded.Init())

	house, err := reloaded.Keys("Farm House")
	require.NoError(t, err)
	assert.Equal(t, []string{"spreadingweeds/1.0.0/5/1/1"}, house)

	underscored, err := reloaded.Keys("Farm_House")
	require.NoError(t, err)
	assert.Equal(t, []string{"spreadingweeds/1.0.0/5/9/9"}, underscored)
}

func TestInit_SkipsPropertyOfAnotherLocation(t *testing.T) {
	manager := createTestManager(t, "mismatch")

	b := NewWithManager(manager, quietLogger())
	require.NoError(t, b.Init())
	require.NoError(t, b.Set("Farm", "k", "farm"))
	require.NoError(t, b.Set("Town", "k", "town"))
	require.NoError(t, b.Close())

	// Point Town's index entry at Farm's document.
	idx := "locations:\n  Farm: " + PropertyName("Farm") + "\n  Town: " + PropertyName("Farm") + "\n"
	require.NoError(t, manager.SaveObjectProp(ledgerObject, indexProperty, []byte(idx)))

	reloaded := NewWithManager(manager, quietLogger())
	require.NoError(t, reloaded.Init())

	v, ok, err := reloaded.Get("Farm", "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "farm", v)

	_, ok, err = reloaded.Get("Town", "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNilManager_DegradesToMemory(t *testing.T) {
	b := New(storageConfigWithoutApp(), quietLogger())
	require.NoError(t, b.Init())

	require.NoError(t, b.Set("Farm", "k", "v"))
	v, ok, err := b.Get("Farm", "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	assert.NoError(t, b.Close())
}

func TestFlushAndReload(t *testing.T) {
	manager := createTestManager(t, "reload")

	b := NewWithManager(manager, quietLogger())
	require.NoError(t, b.Init())
	require.NoError(t, b.Set("Farm", "spreadingweeds/HasSpreadingDebris", "true"))
	require.NoError(t, b.Set("Farm", "spreadingweeds/1.0.0/3/10/12", "Stone/(O)24"))
	require.NoError(t, b.Set("Island West", "spreadingweeds/HasSpreadingDebris", "true"))
	require.NoError(t, b.Close())

	assert.True(t, manager.ObjectPropExists(ledgerObject, indexProperty))
	assert.True(t, manager.ObjectPropExists(ledgerObject, PropertyName("Island West")))

	reloaded := NewWithManager(manager, quietLogger())
	require.NoError(t, reloaded.Init())

	locs, err := reloaded.Locations()
	require.NoError(t, err)
	assert.Equal(t, []string{"Farm", "Island West"}, locs)

	v, ok, err := reloaded.Get("Farm", "spreadingweeds/1.0.0/3/10/12")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Stone/(O)24", v)
}

func TestDeletedLocationDropsFromIndex(t *testing.T) {
	manager := createTestManager(t, "delete")

	b := NewWithManager(manager, quietLogger())
	require.NoError(t, b.Init())
	require.NoError(t, b.Set("Farm", "k", "v"))
	require.NoError(t, b.Flush())
	require.NoError(t, b.Delete("Farm", "k"))
	require.NoError(t, b.Flush())

	reloaded := NewWithManager(manager, quietLogger())
	require.NoError(t, reloaded.Init())
	locs, err := reloaded.Locations()
	require.NoError(t, err)
	assert.Empty(t, locs)
}

func storageConfigWithoutApp() config.GDataConfig {
	return config.GDataConfig{}
}

package sqlitestorage

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spreadingweeds/extension/internal/config"
	"github.com/spreadingweeds/extension/internal/database"
	"github.com/spreadingweeds/extension/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ storage.Backend = (*Backend)(nil)

var testLedger = config.LedgerConfig{Namespace: "spreadingweeds", SchemaVersion: "1.0.0"}

func newTestBackend(t *testing.T, cfg config.SQLiteConfig) *Backend {
	t.Helper()
	b, err := New(cfg, testLedger, database.NewManager(zerolog.Nop()), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.NoError(t, b.Init())
	return b
}

func TestFileBackend_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	b := newTestBackend(t, config.SQLiteConfig{Path: path})
	require.NoError(t, b.Set("Farm", "k", "Stone/(O)24"))
	require.NoError(t, b.Close())

	reopened := newTestBackend(t, config.SQLiteConfig{Path: path})
	defer reopened.Close()

	v, ok, err := reopened.Get("Farm", "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Stone/(O)24", v)
}

func TestMemoryBackend_DumpAndRestore(t *testing.T) {
	dumpPath := filepath.Join(t.TempDir(), "ledger_dump.db")
	cfg := config.SQLiteConfig{DumpPath: dumpPath}

	b := newTestBackend(t, cfg)
	require.NoError(t, b.Set("Farm", "spreadingweeds/HasSpreadingDebris", "true"))
	require.NoError(t, b.Set("Farm", "spreadingweeds/1.0.0/4/2/2", "Weeds/(D3)27"))
	require.NoError(t, b.Close())

	_, err := os.Stat(dumpPath)
	require.NoError(t, err)

	restored := newTestBackend(t, cfg)
	defer restored.Close()

	keys, err := restored.Keys("Farm")
	require.NoError(t, err)
	assert.Equal(t, []string{"spreadingweeds/1.0.0/4/2/2", "spreadingweeds/HasSpreadingDebris"}, keys)
}

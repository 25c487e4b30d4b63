package postgres

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spreadingweeds/extension/internal/config"
	"github.com/spreadingweeds/extension/internal/database"
	"github.com/spreadingweeds/extension/internal/model"
	"github.com/spreadingweeds/extension/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface checks
var (
	_ storage.Backend = (*Backend)(nil)
	_ storage.Flusher = (*Backend)(nil)
)

func TestBeforeInit(t *testing.T) {
	b := New(Dependencies{})

	_, _, err := b.Get("Farm", "k")
	assert.ErrorIs(t, err, storage.ErrNotInitialized)
	assert.ErrorIs(t, b.Set("Farm", "k", "v"), storage.ErrNotInitialized)
	assert.ErrorIs(t, b.Delete("Farm", "k"), storage.ErrNotInitialized)
	_, err = b.Keys("Farm")
	assert.ErrorIs(t, err, storage.ErrNotInitialized)
	_, err = b.Locations()
	assert.ErrorIs(t, err, storage.ErrNotInitialized)
	assert.ErrorIs(t, b.Flush(), storage.ErrNotInitialized)
	assert.NoError(t, b.Close())
}

// The gorm layer is dialect agnostic, so an injected SQLite connection
// exercises the same code path as a live Postgres server.
func TestInjectedDB_BatchesUntilFlush(t *testing.T) {
	dbm := database.NewManager(zerolog.Nop())
	db, err := dbm.OpenSqlite(filepath.Join(t.TempDir(), "pg.db"))
	require.NoError(t, err)

	b := New(Dependencies{
		Config:   config.PostgresConfig{FlushInterval: time.Hour},
		Ledger:   config.LedgerConfig{Namespace: "spreadingweeds", SchemaVersion: "1.0.0"},
		Database: dbm,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		DB:       db,
	})
	require.NoError(t, b.Init())

	require.NoError(t, b.Set("Farm", "k", "Stone/(O)24"))

	var n int64
	require.NoError(t, db.Model(&model.LedgerEntry{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)

	require.NoError(t, b.Flush())
	require.NoError(t, db.Model(&model.LedgerEntry{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	var info model.LedgerInfo
	require.NoError(t, db.First(&info).Error)
	assert.Equal(t, "spreadingweeds", info.Namespace)

	require.NoError(t, b.Close())
}

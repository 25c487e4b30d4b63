// Package postgres implements the storage.Backend interface on PostgreSQL.
// The connection is opened at Init; writes are batched by the embedded
// GORM backend and flushed on a ticker.
package postgres

import (
	"fmt"
	"log/slog"

	"github.com/spreadingweeds/extension/internal/config"
	"github.com/spreadingweeds/extension/internal/database"
	"github.com/spreadingweeds/extension/internal/storage"
	gormstorage "github.com/spreadingweeds/extension/internal/storage/gorm"

	"gorm.io/gorm"
)

// Dependencies holds all dependencies for the Postgres storage backend.
type Dependencies struct {
	Config   config.PostgresConfig
	Ledger   config.LedgerConfig
	Database *database.Manager
	Logger   *slog.Logger
	// DB skips opening a connection when set.
	DB *gorm.DB
}

// Backend implements storage.Backend using PostgreSQL.
type Backend struct {
	deps  Dependencies
	inner *gormstorage.Backend
}

// New creates a new Postgres storage backend.
func New(deps Dependencies) *Backend {
	return &Backend{deps: deps}
}

// Init connects, migrates the schema and loads the ledger.
func (b *Backend) Init() error {
	db := b.deps.DB
	if db == nil {
		var err error
		db, err = b.deps.Database.OpenPostgres(b.deps.Config)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
	}

	if err := b.deps.Database.Setup(db, b.deps.Ledger); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}

	b.inner = gormstorage.New(gormstorage.Dependencies{
		DB:            db,
		Logger:        b.deps.Logger,
		FlushInterval: b.deps.Config.FlushInterval,
	})
	return b.inner.Init()
}

// Close flushes pending writes.
func (b *Backend) Close() error {
	if b.inner == nil {
		return nil
	}
	return b.inner.Close()
}

// Flush writes pending changes now.
func (b *Backend) Flush() error {
	if b.inner == nil {
		return storage.ErrNotInitialized
	}
	return b.inner.Flush()
}

func (b *Backend) Get(location, key string) (string, bool, error) {
	if b.inner == nil {
		return "", false, storage.ErrNotInitialized
	}
	return b.inner.Get(location, key)
}

func (b *Backend) Set(location, key, value string) error {
	if b.inner == nil {
		return storage.ErrNotInitialized
	}
	return b.inner.Set(location, key, value)
}

func (b *Backend) Delete(location, key string) error {
	if b.inner == nil {
		return storage.ErrNotInitialized
	}
	return b.inner.Delete(location, key)
}

func (b *Backend) Keys(location string) ([]string, error) {
	if b.inner == nil {
		return nil, storage.ErrNotInitialized
	}
	return b.inner.Keys(location)
}

func (b *Backend) Locations() ([]string, error) {
	if b.inner == nil {
		return nil, storage.ErrNotInitialized
	}
	return b.inner.Locations()
}

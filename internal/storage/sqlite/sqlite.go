// Package sqlitestorage implements the storage.Backend interface using SQLite.
// It wraps the GORM backend via composition. The only SQLite-specific
// concerns are opening the database and, for in-memory databases, the
// periodic VACUUM INTO dump and restoring from it at startup.
package sqlitestorage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spreadingweeds/extension/internal/config"
	"github.com/spreadingweeds/extension/internal/database"
	"github.com/spreadingweeds/extension/internal/model"
	gormstorage "github.com/spreadingweeds/extension/internal/storage/gorm"

	"gorm.io/gorm"
)

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	db       *gorm.DB
	dbm      *database.Manager
	cfg      config.SQLiteConfig
	log      *slog.Logger
	stopChan chan struct{}
}

// New opens the database and migrates the schema.
func New(cfg config.SQLiteConfig, ledger config.LedgerConfig, dbm *database.Manager, logger *slog.Logger) (*Backend, error) {
	db, err := dbm.OpenSqlite(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite DB: %w", err)
	}
	if err := dbm.Setup(db, ledger); err != nil {
		return nil, err
	}

	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{
			DB:     db,
			Logger: logger,
		}),
		db:       db,
		dbm:      dbm,
		cfg:      cfg,
		log:      logger,
		stopChan: make(chan struct{}),
	}, nil
}

func (b *Backend) inMemory() bool {
	return b.cfg.Path == ""
}

// Init restores the last dump into an in-memory database, initializes the
// embedded GORM backend and starts the dump goroutine.
func (b *Backend) Init() error {
	if b.inMemory() && b.cfg.DumpPath != "" {
		if err := b.restoreDump(); err != nil {
			return err
		}
	}

	if err := b.Backend.Init(); err != nil {
		return err
	}

	if b.inMemory() && b.cfg.DumpPath != "" && b.cfg.DumpInterval > 0 {
		go b.dumpLoop()
	}
	return nil
}

// Close stops the dump goroutine, flushes, writes a final dump and closes
// the connection.
func (b *Backend) Close() error {
	close(b.stopChan)
	if err := b.Backend.Close(); err != nil {
		return err
	}
	if b.inMemory() && b.cfg.DumpPath != "" {
		if err := database.VacuumInto(b.db, b.cfg.DumpPath); err != nil {
			return err
		}
	}
	sqlDB, err := b.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

func (b *Backend) restoreDump() error {
	if _, err := os.Stat(b.cfg.DumpPath); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	dump, err := b.dbm.OpenSqlite(b.cfg.DumpPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite dump: %w", err)
	}
	if sqlDB, err := dump.DB(); err == nil {
		defer sqlDB.Close()
	}

	var entries []model.LedgerEntry
	if err := dump.Find(&entries).Error; err != nil {
		return fmt.Errorf("failed to read SQLite dump: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	for i := range entries {
		entries[i].ID = 0
	}
	if err := b.db.CreateInBatches(entries, 500).Error; err != nil {
		return fmt.Errorf("failed to restore SQLite dump: %w", err)
	}

	b.log.Info("Restored ledger from dump", "path", b.cfg.DumpPath, "entries", len(entries))
	return nil
}

// dumpLoop periodically dumps the in-memory SQLite database to disk via VACUUM INTO.
func (b *Backend) dumpLoop() {
	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			start := time.Now()
			if err := database.VacuumInto(b.db, b.cfg.DumpPath); err != nil {
				b.log.Error("Error dumping to disk", "error", err)
			} else {
				b.log.Debug("Dumped to disk", "duration", time.Since(start))
			}
		}
	}
}

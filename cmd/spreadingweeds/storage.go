package main

import (
	"fmt"
	"log/slog"

	"github.com/rs/zerolog"

	"github.com/spreadingweeds/extension/internal/config"
	"github.com/spreadingweeds/extension/internal/database"
	"github.com/spreadingweeds/extension/internal/storage"
	gdatastorage "github.com/spreadingweeds/extension/internal/storage/gdata"
	"github.com/spreadingweeds/extension/internal/storage/memory"
	pgstorage "github.com/spreadingweeds/extension/internal/storage/postgres"
	sqlitestorage "github.com/spreadingweeds/extension/internal/storage/sqlite"
)

func createStorageBackend(storageCfg config.StorageConfig, ledger config.LedgerConfig, zlog zerolog.Logger, logger *slog.Logger) (storage.Backend, error) {
	dbm := database.NewManager(zlog.With().Str("component", "database").Logger())

	switch storageCfg.Type {
	case "postgres":
		logger.Info("Postgres storage backend initialized", "host", storageCfg.Postgres.Host)
		return pgstorage.New(pgstorage.Dependencies{
			Config:   storageCfg.Postgres,
			Ledger:   ledger,
			Database: dbm,
			Logger:   logger,
		}), nil

	case "sqlite":
		backend, err := sqlitestorage.New(storageCfg.SQLite, ledger, dbm, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		logger.Info("SQLite storage backend initialized", "path", storageCfg.SQLite.Path)
		return backend, nil

	case "gdata":
		logger.Info("Save-data storage backend initialized", "app", storageCfg.GData.AppName)
		return gdatastorage.New(storageCfg.GData, logger), nil

	case "memory", "":
		logger.Info("Memory storage backend initialized", "outputDir", storageCfg.Memory.OutputDir)
		return memory.New(storageCfg.Memory), nil

	default:
		return nil, fmt.Errorf("unknown storage type %q", storageCfg.Type)
	}
}

// Package database opens the SQL databases behind the gorm ledger
// backends and prepares their schema.
package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/spreadingweeds/extension/internal/config"
	"github.com/spreadingweeds/extension/internal/model"
)

const (
	memoryDSN        = "file::memory:?cache=shared"
	postgresMaxConns = 4
)

var sqlitePragmas = []string{
	"PRAGMA user_version = 1",
	"PRAGMA journal_mode = MEMORY",
	"PRAGMA temp_store = MEMORY",
}

// Manager opens and prepares ledger databases.
type Manager struct {
	Logger zerolog.Logger
}

func NewManager(log zerolog.Logger) *Manager {
	return &Manager{Logger: log}
}

func gormConfig(prepare bool) *gorm.Config {
	return &gorm.Config{
		PrepareStmt:            prepare,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}
}

// PostgresDSN renders cfg as a libpq keyword/value string.
func PostgresDSN(cfg config.PostgresConfig) string {
	pairs := [][2]string{
		{"host", cfg.Host},
		{"port", cfg.Port},
		{"user", cfg.Username},
		{"password", cfg.Password},
		{"dbname", cfg.Database},
		{"sslmode", "disable"},
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		parts = append(parts, p[0]+"="+p[1])
	}
	return strings.Join(parts, " ")
}

// OpenPostgres connects and pings the configured server.
func (m *Manager) OpenPostgres(cfg config.PostgresConfig) (*gorm.DB, error) {
	m.Logger.Debug().Str("host", cfg.Host).Str("database", cfg.Database).Msg("Connecting to Postgres")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  PostgresDSN(cfg),
		PreferSimpleProtocol: true,
	}), gormConfig(false))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to reach %s: %w", cfg.Host, err)
	}
	sqlDB.SetMaxOpenConns(postgresMaxConns)

	m.Logger.Info().Str("host", cfg.Host).Msg("Connected to Postgres")
	return db, nil
}

// OpenSqlite opens the database file at path, or a shared in-memory
// database when path is empty.
func (m *Manager) OpenSqlite(path string) (*gorm.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = memoryDSN
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(true))
	if err != nil {
		return nil, err
	}
	for _, pragma := range sqlitePragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	ev := m.Logger.Info()
	if path == "" {
		ev.Msg("Using in-memory SQLite ledger")
	} else {
		ev.Str("path", path).Msg("Using SQLite ledger file")
	}
	return db, nil
}

// Setup migrates the tables and writes the ledger_infos row the first
// time a namespace is seen. A row written by another schema version is
// kept as is and only reported.
func (m *Manager) Setup(db *gorm.DB, ledger config.LedgerConfig) error {
	if err := db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	var info model.LedgerInfo
	err := db.Where("namespace = ?", ledger.Namespace).First(&info).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m.createInfo(db, ledger)
	}
	if err != nil {
		return fmt.Errorf("failed to read ledger_infos: %w", err)
	}
	if info.SchemaVersion != ledger.SchemaVersion {
		m.Logger.Warn().
			Str("stored", info.SchemaVersion).
			Str("running", ledger.SchemaVersion).
			Msg("Ledger was written by another schema version")
	}
	return nil
}

func (m *Manager) createInfo(db *gorm.DB, ledger config.LedgerConfig) error {
	settings, err := json.Marshal(config.GetModConfig())
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	info := model.LedgerInfo{
		Namespace:     ledger.Namespace,
		SchemaVersion: ledger.SchemaVersion,
		Settings:      datatypes.JSON(settings),
	}
	if err := db.Create(&info).Error; err != nil {
		return fmt.Errorf("failed to create ledger_infos row: %w", err)
	}
	m.Logger.Info().Str("namespace", ledger.Namespace).Msg("Created ledger")
	return nil
}

// VacuumInto writes a compacted copy of db to path, replacing any file
// already there.
func VacuumInto(db *gorm.DB, path string) error {
	if path == "" {
		return errors.New("no dump path configured")
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove old dump: %w", err)
	}
	if err := db.Exec("VACUUM INTO ?", "file:"+path).Error; err != nil {
		return fmt.Errorf("failed to dump database to %s: %w", path, err)
	}
	return nil
}

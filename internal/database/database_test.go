package database

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spreadingweeds/extension/internal/config"
	"github.com/spreadingweeds/extension/internal/model"
)

var testLedger = config.LedgerConfig{Namespace: "spreadingweeds", SchemaVersion: "1.0.0"}

func TestPostgresDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.PostgresConfig
		want string
	}{
		{
			name: "full",
			cfg:  config.PostgresConfig{Host: "db", Port: "5432", Username: "u", Password: "p", Database: "weeds"},
			want: "host=db port=5432 user=u password=p dbname=weeds sslmode=disable",
		},
		{
			name: "blank fields skipped",
			cfg:  config.PostgresConfig{Host: "db", Database: "weeds"},
			want: "host=db dbname=weeds sslmode=disable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PostgresDSN(tt.cfg))
		})
	}
}

func TestSetup_CreatesInfoOnce(t *testing.T) {
	m := NewManager(zerolog.Nop())
	db, err := m.OpenSqlite(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)

	require.NoError(t, m.Setup(db, testLedger))
	require.NoError(t, m.Setup(db, testLedger))

	var infos []model.LedgerInfo
	require.NoError(t, db.Find(&infos).Error)
	require.Len(t, infos, 1)
	assert.Equal(t, "spreadingweeds", infos[0].Namespace)
	assert.Equal(t, "1.0.0", infos[0].SchemaVersion)
}

func TestSetup_OtherVersionKept(t *testing.T) {
	m := NewManager(zerolog.Nop())
	db, err := m.OpenSqlite(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	require.NoError(t, m.Setup(db, testLedger))

	newer := testLedger
	newer.SchemaVersion = "2.0.0"
	require.NoError(t, m.Setup(db, newer))

	var info model.LedgerInfo
	require.NoError(t, db.First(&info).Error)
	assert.Equal(t, "1.0.0", info.SchemaVersion)
}

func TestVacuumInto(t *testing.T) {
	m := NewManager(zerolog.Nop())
	dir := t.TempDir()
	db, err := m.OpenSqlite(filepath.Join(dir, "live.db"))
	require.NoError(t, err)
	require.NoError(t, m.Setup(db, testLedger))
	require.NoError(t, db.Create(&model.LedgerEntry{Location: "Farm", Key: "k", Value: "v"}).Error)

	dump := filepath.Join(dir, "dump.db")
	require.NoError(t, VacuumInto(db, dump))
	require.NoError(t, VacuumInto(db, dump), "an existing dump is replaced")

	copyDB, err := m.OpenSqlite(dump)
	require.NoError(t, err)
	var entries []model.LedgerEntry
	require.NoError(t, copyDB.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, "v", entries[0].Value)
}

func TestVacuumInto_NoPath(t *testing.T) {
	assert.Error(t, VacuumInto(nil, ""))
}

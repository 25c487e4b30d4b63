package config

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/spreadingweeds/extension/pkg/core"
)

// FileName is the config file looked up inside the config directory.
const FileName = "spreading_weeds.cfg.json"

// ModConfig holds the player-facing options.
type ModConfig struct {
	ShowX               bool   `json:"showX" mapstructure:"showX"`
	NewObjectResets     bool   `json:"newObjectResets" mapstructure:"newObjectResets"`
	CropImages          string `json:"cropImages" mapstructure:"cropImages"`
	ShowHUDDamageReport bool   `json:"showHUDDamageReport" mapstructure:"showHUDDamageReport"`
	ShowInWorldOverlay  bool   `json:"showInWorldOverlay" mapstructure:"showInWorldOverlay"`
}

// CropMode returns the parsed CropImages value.
func (c ModConfig) CropMode() core.CropDisplayMode {
	return core.ParseCropDisplayMode(c.CropImages)
}

// DefaultModConfig is used when no file overrides the options.
func DefaultModConfig() ModConfig {
	return ModConfig{
		ShowX:               true,
		NewObjectResets:     true,
		CropImages:          string(core.CropGrowingPlant),
		ShowHUDDamageReport: true,
		ShowInWorldOverlay:  true,
	}
}

// LedgerConfig controls how keys are namespaced in location storage.
type LedgerConfig struct {
	Namespace     string
	SchemaVersion string
}

// Labels are the user-visible strings of the damage report.
type Labels struct {
	ReportTitle string
	TilledSoil  string
}

// MemoryConfig holds in-memory/JSON snapshot storage settings.
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite storage settings. An empty Path keeps the
// database in memory and relies on the periodic dump.
type SQLiteConfig struct {
	Path         string
	DumpPath     string
	DumpInterval time.Duration
}

// PostgresConfig holds connection settings for the Postgres backend.
type PostgresConfig struct {
	Host          string
	Port          string
	Username      string
	Password      string
	Database      string
	FlushInterval time.Duration
}

// GDataConfig holds settings for the save-data directory backend.
type GDataConfig struct {
	AppName string
}

// StorageConfig selects and configures the ledger backend.
type StorageConfig struct {
	Type     string
	Memory   MemoryConfig
	SQLite   SQLiteConfig
	Postgres PostgresConfig
	GData    GDataConfig
}

// OTelConfig holds OpenTelemetry settings.
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// InfluxConfig holds InfluxDB settings for damage metrics.
type InfluxConfig struct {
	Enabled    bool
	Host       string
	Port       string
	Protocol   string
	Token      string
	Org        string
	Bucket     string
	BackupPath string
}

// GraylogConfig holds GELF log shipping settings.
type GraylogConfig struct {
	Enabled bool
	Address string
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

func setDefaults() {
	mod := DefaultModConfig()
	viper.SetDefault("showX", mod.ShowX)
	viper.SetDefault("newObjectResets", mod.NewObjectResets)
	viper.SetDefault("cropImages", mod.CropImages)
	viper.SetDefault("showHUDDamageReport", mod.ShowHUDDamageReport)
	viper.SetDefault("showInWorldOverlay", mod.ShowInWorldOverlay)

	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./weedlogs")

	viper.SetDefault("ledger.namespace", "spreadingweeds")
	viper.SetDefault("ledger.schemaVersion", "1.0.0")

	viper.SetDefault("labels.reportTitle", "Farm Damage")
	viper.SetDefault("labels.tilledSoil", "Tilled Soil")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./ledger")
	viper.SetDefault("storage.memory.compressOutput", false)
	viper.SetDefault("storage.sqlite.path", "")
	viper.SetDefault("storage.sqlite.dumpPath", "./ledger/spreading_weeds.db")
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")
	viper.SetDefault("storage.postgres.host", "localhost")
	viper.SetDefault("storage.postgres.port", "5432")
	viper.SetDefault("storage.postgres.username", "postgres")
	viper.SetDefault("storage.postgres.password", "postgres")
	viper.SetDefault("storage.postgres.database", "spreading_weeds")
	viper.SetDefault("storage.postgres.flushInterval", "10s")
	viper.SetDefault("storage.gdata.appName", "spreading_weeds")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "spreading-weeds")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "spreading-weeds")
	viper.SetDefault("influx.bucket", "farm_damage")
	viper.SetDefault("influx.backupPath", "./weedlogs/influx_backup.log.gz")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetModConfig returns the current player-facing options.
func GetModConfig() ModConfig {
	return ModConfig{
		ShowX:               viper.GetBool("showX"),
		NewObjectResets:     viper.GetBool("newObjectResets"),
		CropImages:          viper.GetString("cropImages"),
		ShowHUDDamageReport: viper.GetBool("showHUDDamageReport"),
		ShowInWorldOverlay:  viper.GetBool("showInWorldOverlay"),
	}
}

// SaveModConfig applies c and writes it back to the config file.
func SaveModConfig(c ModConfig) error {
	viper.Set("showX", c.ShowX)
	viper.Set("newObjectResets", c.NewObjectResets)
	viper.Set("cropImages", c.CropImages)
	viper.Set("showHUDDamageReport", c.ShowHUDDamageReport)
	viper.Set("showInWorldOverlay", c.ShowInWorldOverlay)

	if err := viper.WriteConfig(); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// Watch calls onChange with the reloaded options every time the config
// file changes on disk.
func Watch(onChange func(ModConfig)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		onChange(GetModConfig())
	})
	viper.WatchConfig()
}

// GetLedgerConfig returns the key namespace settings.
func GetLedgerConfig() LedgerConfig {
	return LedgerConfig{
		Namespace:     viper.GetString("ledger.namespace"),
		SchemaVersion: viper.GetString("ledger.schemaVersion"),
	}
}

// GetLabels returns the report strings.
func GetLabels() Labels {
	return Labels{
		ReportTitle: viper.GetString("labels.reportTitle"),
		TilledSoil:  viper.GetString("labels.tilledSoil"),
	}
}

// GetStorageConfig returns the ledger backend settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path:         viper.GetString("storage.sqlite.path"),
			DumpPath:     viper.GetString("storage.sqlite.dumpPath"),
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
		},
		Postgres: PostgresConfig{
			Host:          viper.GetString("storage.postgres.host"),
			Port:          viper.GetString("storage.postgres.port"),
			Username:      viper.GetString("storage.postgres.username"),
			Password:      viper.GetString("storage.postgres.password"),
			Database:      viper.GetString("storage.postgres.database"),
			FlushInterval: viper.GetDuration("storage.postgres.flushInterval"),
		},
		GData: GDataConfig{
			AppName: viper.GetString("storage.gdata.appName"),
		},
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetInfluxConfig returns the InfluxDB settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:    viper.GetBool("influx.enabled"),
		Host:       viper.GetString("influx.host"),
		Port:       viper.GetString("influx.port"),
		Protocol:   viper.GetString("influx.protocol"),
		Token:      viper.GetString("influx.token"),
		Org:        viper.GetString("influx.org"),
		Bucket:     viper.GetString("influx.bucket"),
		BackupPath: viper.GetString("influx.backupPath"),
	}
}

// GetGraylogConfig returns the GELF settings.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

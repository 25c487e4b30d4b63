package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spreadingweeds/extension/internal/config"
)

// ExtensionName prefixes log files and the GELF facility.
const ExtensionName = "spreading_weeds"

var rootCmd = &cobra.Command{
	Use:   "spreadingweeds",
	Short: "Overnight farm damage recorder",
	Long: "spreadingweeds keeps the per-location ledger of everything spreading debris " +
		"destroyed overnight, builds the morning damage report and previews the overlay.",
	SilenceUsage: true,
}

var (
	configDir   string
	catalogPath string
	logLevel    string
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory holding "+config.FileName)
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "extra item catalog (.yaml or .toml) merged over the built-in one")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
}

func initConfig() {
	// A missing file is fine; defaults apply.
	if err := config.Load(configDir); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config, using defaults: %v\n", err)
	}
	if logLevel != "" {
		viper.Set("logLevel", logLevel)
	}
}

package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blackwell-systems/cursorswap/internal/config"
	"github.com/blackwell-systems/cursorswap/internal/log"
)

var (
	cfgFile  string
	dbPath   string
	logLevel string

	// v carries the configuration search path, environment overrides and
	// flag bindings for every subcommand.
	v = config.NewViper()

	// RootCmd is the root command for cursorswap
	RootCmd = &cobra.Command{
		Use:   "cursorswap",
		Short: "Swap the system cursor based on the application under the pointer",
		Long: `cursorswap watches which application is under the mouse pointer and
replaces the system cursor with the one configured for that application.
When the pointer leaves a configured application the default cursor scheme
is restored, and it is always restored when cursorswap exits.

Quick Start:
  1. cursorswap init          # write a starter cursor.toml
  2. edit cursor.toml         # declare cursors and applications
  3. cursorswap check         # validate it
  4. cursorswap run           # close the window or press Ctrl+C to stop

Examples:
  # Run in the background
  cursorswap run --daemon

  # Which cursor would VS Code get?
  cursorswap match "C:\Program Files\Microsoft VS Code\Code.exe"

  # Show recent cursor changes (requires history = true)
  cursorswap history`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogging(v.GetString("settings.log_level"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("cursorswap: per-application system cursors")
			fmt.Println()
			fmt.Println("Run 'cursorswap init' to create a configuration.")
			fmt.Println("Run 'cursorswap --help' for the full reference.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration file (default: ./cursor.toml or ~/.config/cursorswap/cursor.toml)")
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "history database path (default: ~/.config/cursorswap/history.db)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	v.BindPFlag("config", RootCmd.PersistentFlags().Lookup("config"))
	v.BindPFlag("settings.log_level", RootCmd.PersistentFlags().Lookup("log-level"))

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

func initLogging(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.Init(os.Stderr, lvl)
	return nil
}

// loadConfig reads the configuration through the shared viper instance and
// applies its log level.
func loadConfig() (*config.Config, error) {
	return loadConfigFrom(v)
}

func loadConfigFrom(vp *viper.Viper) (*config.Config, error) {
	cfg, err := config.Load(vp, "")
	if err != nil {
		return nil, err
	}
	if err := initLogging(cfg.Settings.LogLevel); err != nil {
		return nil, fmt.Errorf("%s: settings.log_level: %w", cfg.File, err)
	}
	log.Debug(log.CatConfig, "Configuration loaded", "file", cfg.File,
		"cursors", len(cfg.Cursors), "applications", len(cfg.Applications))
	return cfg, nil
}

// stateDir returns the cursorswap config directory, creating it if needed.
func stateDir() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cursorswap directory: %w", err)
	}
	return dir, nil
}

// getDBPath returns the database path, using the flag value or default
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// getDefaultPIDFile returns the default PID file path
func getDefaultPIDFile() (string, error) {
	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cursorswap.pid"), nil
}

// getDefaultLogFile returns the default log file path
func getDefaultLogFile() (string, error) {
	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cursorswap.log"), nil
}

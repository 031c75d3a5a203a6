package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Backend constants
const (
	BackendJSON   = "json"   // Single efforts.json document
	BackendSQLite = "sqlite" // SQLite database
)

const (
	defaultLedgerFile = "efforts.json"
	defaultDBFile     = "eco.db"
)

// Config represents the eco runtime configuration, read from ECO_* variables.
type Config struct {
	Backend     string `env:"ECO_BACKEND" envDefault:"json"`
	DataDir     string `env:"ECO_DATA_DIR"`    // defaults to ~/.eco
	LedgerFile  string `env:"ECO_LEDGER_FILE"` // defaults to <data dir>/efforts.json
	DBFile      string `env:"ECO_DB_FILE"`     // defaults to <data dir>/eco.db
	LogLevel    string `env:"ECO_LOG_LEVEL" envDefault:"warn"`
	LogFormat   string `env:"ECO_LOG_FORMAT" envDefault:"text"`
	MetricsFile string `env:"ECO_METRICS_FILE"`
	NoColor     bool   `env:"ECO_NO_COLOR"`
}

// LoadConfig reads configuration from the environment and validates it.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("invalid backend %q: must be %s or %s", c.Backend, BackendJSON, BackendSQLite)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be text or json", c.LogFormat)
	}
	return nil
}

// ResolveDataDir returns the configured data directory, defaulting to ~/.eco.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".eco"), nil
}

// LedgerPath returns the JSON ledger path.
func (c *Config) LedgerPath() (string, error) {
	return c.resolveFile(c.LedgerFile, defaultLedgerFile)
}

// DBPath returns the SQLite ledger path.
func (c *Config) DBPath() (string, error) {
	return c.resolveFile(c.DBFile, defaultDBFile)
}

func (c *Config) resolveFile(explicit, name string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	dir, err := c.ResolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// ParseLogLevel converts a level name into a slog level.
func ParseLogLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q: must be debug, info, warn or error", raw)
	}
}

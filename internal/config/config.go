// Package config provides configuration loading for the DCA simulator.
// Values are resolved in three layers: built-in defaults, an optional JSON
// config file, and DCA_* environment variable overrides, the last layer
// winning.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultConfigFile is the config file looked up in the working directory
// when no explicit path is given.
const DefaultConfigFile = "dca.json"

// AppConfig is the complete application configuration.
type AppConfig struct {
	// Pair is the asset symbol quoted against the fiat currency.
	Pair string `json:"pair,omitempty"`

	Storage StorageConfig `json:"storage"`
	Logging LoggingConfig `json:"logging"`

	// ChartPath is where the investment-vs-value chart image is written.
	ChartPath string `json:"chart_path,omitempty"`
}

// StorageConfig selects the record store backend.
type StorageConfig struct {
	Type string `json:"type,omitempty"` // "csv", "memory", "duckdb"
	Path string `json:"path,omitempty"`
}

// LoggingConfig configures structured logging output.
type LoggingConfig struct {
	Level  string `json:"level,omitempty"`  // "debug", "info", "warn", "error"
	Format string `json:"format,omitempty"` // "text", "json"
	Output string `json:"output,omitempty"` // "stderr", "stdout", "file"

	// File rotation settings, used when Output is "file".
	FilePath   string `json:"file_path,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty"`
	MaxAgeDays int    `json:"max_age_days,omitempty"`
	Compress   bool   `json:"compress,omitempty"`
}

// Default returns a configuration with sensible defaults.
func Default() *AppConfig {
	return &AppConfig{
		Pair: "BTC-USD",
		Storage: StorageConfig{
			Type: "csv",
			Path: "dca_purchases.csv",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stderr",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		ChartPath: "investment_vs_value.png",
	}
}

// Load resolves the application configuration from defaults, the config
// file at path (or DefaultConfigFile when path is empty; a missing file is
// not an error), and environment overrides.
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = DefaultConfigFile
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("DCA_PAIR"); v != "" {
		cfg.Pair = v
	}
	if v := os.Getenv("DCA_STORE_TYPE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("DCA_STORE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("DCA_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DCA_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("DCA_LOG_OUTPUT"); v != "" {
		cfg.Logging.Output = v
	}
	if v := os.Getenv("DCA_LOG_FILE"); v != "" {
		cfg.Logging.FilePath = v
	}
	if v := os.Getenv("DCA_CHART_PATH"); v != "" {
		cfg.ChartPath = v
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "BTC-USD", cfg.Pair)
	assert.Equal(t, "csv", cfg.Storage.Type)
	assert.Equal(t, "dca_purchases.csv", cfg.Storage.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, "investment_vs_value.png", cfg.ChartPath)
}

func TestLoadMissingDefaultFileIsNotAnError(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dca.json")
	content := `{
		"pair": "ETH-USD",
		"storage": {"type": "duckdb", "path": "runs.db"},
		"logging": {"level": "debug", "format": "json"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ETH-USD", cfg.Pair)
	assert.Equal(t, "duckdb", cfg.Storage.Type)
	assert.Equal(t, "runs.db", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	// Untouched sections keep their defaults.
	assert.Equal(t, "investment_vs_value.png", cfg.ChartPath)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dca.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dca.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pair": "ETH-USD"}`), 0o644))

	t.Setenv("DCA_PAIR", "LTC-USD")
	t.Setenv("DCA_STORE_TYPE", "memory")
	t.Setenv("DCA_LOG_LEVEL", "error")
	t.Setenv("DCA_CHART_PATH", "out.png")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "LTC-USD", cfg.Pair)
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "out.png", cfg.ChartPath)
}

package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnayoung/go-dca-simulator/internal/config"
)

func TestNewDefaultsToStderrText(t *testing.T) {
	log, err := New(config.LoggingConfig{})
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.False(t, log.Enabled(nil, slog.LevelDebug))
	assert.True(t, log.Enabled(nil, slog.LevelInfo))
}

func TestNewRespectsLevel(t *testing.T) {
	tests := []struct {
		level string
		debug bool
		warn  bool
	}{
		{level: "debug", debug: true, warn: true},
		{level: "info", debug: false, warn: true},
		{level: "warn", debug: false, warn: true},
		{level: "error", debug: false, warn: false},
		{level: "bogus", debug: false, warn: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log, err := New(config.LoggingConfig{Level: tt.level, Output: "stdout"})
			require.NoError(t, err)
			assert.Equal(t, tt.debug, log.Enabled(nil, slog.LevelDebug))
			assert.Equal(t, tt.warn, log.Enabled(nil, slog.LevelWarn))
		})
	}
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "dca.log")
	log, err := New(config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: path,
	})
	require.NoError(t, err)

	log.Info("starting run", "pair", "BTC-USD")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"starting run"`)
	assert.Contains(t, string(data), `"level":"INFO"`)
	assert.Contains(t, string(data), `"pair":"BTC-USD"`)
}

func TestNewFileOutputRequiresPath(t *testing.T) {
	_, err := New(config.LoggingConfig{Output: "file"})
	assert.Error(t, err)
}

func TestNewRejectsUnknownOutput(t *testing.T) {
	_, err := New(config.LoggingConfig{Output: "syslog"})
	assert.Error(t, err)
}

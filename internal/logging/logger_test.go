package logging

import (
	"os"
	"path/filepath"
	"testing"

	"eventdesk/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerFileOutput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "app.log")
	logger, closer, err := New(
		config.LoggingConfig{Level: "debug", Output: "file", FilePath: logPath},
		config.AppConfig{Name: "eventdesk", Environment: "test", Version: "0.1.0"},
	)
	require.NoError(t, err)
	require.NotNil(t, closer)

	logger.Info().Str("check", "file-sink").Msg("hello")
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"check":"file-sink"`)
	assert.Contains(t, string(raw), `"app":"eventdesk"`)
	assert.Contains(t, string(raw), `"env":"test"`)
}

func TestNewLoggerFileRequiresPath(t *testing.T) {
	_, _, err := New(config.LoggingConfig{Output: "file"}, config.AppConfig{})
	assert.Error(t, err)
}

func TestNewLoggerLevelFiltering(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "app.log")
	logger, closer, err := New(
		config.LoggingConfig{Level: "error", Output: "file", FilePath: logPath},
		config.AppConfig{Name: "eventdesk"},
	)
	require.NoError(t, err)

	logger.Debug().Msg("too quiet")
	logger.Error().Msg("loud enough")
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "too quiet")
	assert.Contains(t, string(raw), "loud enough")
}

func TestNewLoggerDefaults(t *testing.T) {
	logger, closer, err := New(config.LoggingConfig{}, config.AppConfig{})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.Nil(t, closer)

	// unknown levels fall back to info
	logger, _, err = New(config.LoggingConfig{Level: "shout"}, config.AppConfig{})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	// console format wraps the sink without failing
	logger, _, err = New(config.LoggingConfig{Format: "console", Output: "stderr"}, config.AppConfig{})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

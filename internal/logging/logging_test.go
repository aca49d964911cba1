package logging

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WritesJSONToFile(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Level:         "debug",
		FilePath:      filepath.Join(dir, "llmx.log"),
		MaxSizeMB:     1,
		MaxFiles:      2,
		WriteToStderr: false,
	}

	logger, cleanup, err := Setup(cfg)
	require.NoError(t, err)
	defer cleanup()

	logger.Info("hello", "key", "value")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestDefaultConfig_SetsFilePath(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.NotEmpty(t, cfg.FilePath)
	assert.True(t, cfg.WriteToStderr)
}

func TestDebugConfig_OverridesLevel(t *testing.T) {
	cfg := DebugConfig()
	assert.Equal(t, "debug", cfg.Level)
}

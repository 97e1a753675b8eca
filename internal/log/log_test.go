package log

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdoering/marquee/internal/config"
)

func TestSetupLogger_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "marquee.log")
	logger, err := SetupLogger(&config.LoggingConfig{File: path, Level: "info"})
	require.NoError(t, err)

	logger.Info("catalog loaded", "movies", 3)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "catalog loaded", entry["msg"])
	assert.EqualValues(t, 3, entry["movies"])
}

func TestSetupLogger_EmptyPathDiscards(t *testing.T) {
	logger, err := SetupLogger(&config.LoggingConfig{})
	require.NoError(t, err)
	require.NotNil(t, logger)

	// Must not panic or create files anywhere
	logger.Error("dropped")
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for input, want := range cases {
		assert.Equal(t, want, parseLogLevel(input), input)
	}
}

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTempHome(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("home redirection is unix only")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestSaveAndClearServerConfig(t *testing.T) {
	setTempHome(t)

	cfg := DefaultConfig()
	cfg.Server.URL = "https://movies.example.com"
	require.NoError(t, SaveConfig(cfg))

	configFile := filepath.Join(defaultConfigPath(), "config.yaml")
	data, err := os.ReadFile(configFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "movies.example.com")

	require.NoError(t, ClearServerConfig())

	data, err = os.ReadFile(configFile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "movies.example.com")
}

func TestClearData(t *testing.T) {
	setTempHome(t)

	dataPath := defaultDataPath()
	require.NoError(t, os.MkdirAll(filepath.Join(dataPath, "images"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dataPath, "marquee.db"), []byte("x"), 0644))

	require.NoError(t, ClearData())

	_, err := os.Stat(dataPath)
	assert.True(t, os.IsNotExist(err))
}

func TestClearData_MissingDirIsFine(t *testing.T) {
	setTempHome(t)
	assert.NoError(t, ClearData())
}

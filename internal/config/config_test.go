package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv("GITSTAR_DATA_DIR", dir)
	t.Setenv("GITSTAR_BACKEND", "bolt")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "bolt", cfg.Storage.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, filepath.Join(dir, "gitstar.log"), cfg.LogPath())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLoad_ConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	t.Setenv("GITSTAR_DATA_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  level: debug\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
}

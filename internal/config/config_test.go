package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestConfig(t *testing.T) *Config {
	t.Helper()
	t.Setenv("KUZCO_HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	return cfg
}

func TestLoadConfigCreatesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("KUZCO_HOME", home)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.ActiveProfile)
	assert.Equal(t, 30, cfg.TimeoutSeconds)
	assert.Equal(t, 2000, cfg.PreviewSizeThreshold)
	assert.True(t, cfg.BackupsEnabled())
	assert.Equal(t, []string{"sudo", "su"}, cfg.ElevationPrefixes)
	assert.FileExists(t, filepath.Join(home, ".kuzco", "config.json"))
}

func TestSetModelPersists(t *testing.T) {
	home := t.TempDir()
	t.Setenv("KUZCO_HOME", home)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	cfg.SetModel("llama3")
	require.NoError(t, cfg.Save())

	reloaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "llama3", reloaded.GetModel())
}

func TestModelOverrideDoesNotPersist(t *testing.T) {
	home := t.TempDir()
	t.Setenv("KUZCO_HOME", home)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	cfg.SetModelOverride("mistral")
	assert.Equal(t, "mistral", cfg.GetModel())

	reloaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, reloaded.GetModel())
}

func TestCommandTimeout(t *testing.T) {
	cfg := loadTestConfig(t)
	assert.Equal(t, "30s", cfg.CommandTimeout().String())
}

func TestIsExitKeyword(t *testing.T) {
	cfg := loadTestConfig(t)

	for _, kw := range []string{"exit", "quit", "bye", "goodbye"} {
		assert.True(t, cfg.IsExitKeyword(kw), "keyword %q", kw)
	}
	assert.False(t, cfg.IsExitKeyword("hello"))
	assert.False(t, cfg.IsExitKeyword("exit now please"))
}

func TestBackupsCanBeDisabled(t *testing.T) {
	home := t.TempDir()
	t.Setenv("KUZCO_HOME", home)

	configPath := filepath.Join(home, ".kuzco", "config.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0755))
	require.NoError(t, os.WriteFile(configPath, []byte(`{
		"profiles": {"default": {"model": "llama3"}},
		"active_profile": "default",
		"create_backups": false
	}`), 0600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.BackupsEnabled())
}

func TestMissingActiveProfileFallsBack(t *testing.T) {
	home := t.TempDir()
	t.Setenv("KUZCO_HOME", home)

	configPath := filepath.Join(home, ".kuzco", "config.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0755))
	require.NoError(t, os.WriteFile(configPath, []byte(`{
		"profiles": {"work": {"model": "mistral"}},
		"active_profile": "gone"
	}`), 0600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "work", cfg.ActiveProfile)
	assert.Equal(t, "mistral", cfg.GetModel())
}

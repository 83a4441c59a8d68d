package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", dir)
	t.Cleanup(func() { os.Setenv("HOME", oldHome) })
	return dir
}

func writeConfig(t *testing.T, home, content string) {
	t.Helper()
	cfgDir := filepath.Join(home, ".paramedit")
	require.NoError(t, os.MkdirAll(cfgDir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config"), []byte(content), 0600))
}

func TestSaveConfigCreatesDirectories(t *testing.T) {
	withHome(t)

	cfg := Default()
	err := cfg.Save()
	require.NoError(t, err)

	// Verify file exists and has correct permissions
	info, err := os.Stat(Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoadConfigNonExistent(t *testing.T) {
	withHome(t)

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	withHome(t)

	cfg, err := LoadOrDefault()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveLoadRoundtripWithAllFields(t *testing.T) {
	withHome(t)

	original := Config{
		Theme:         "light",
		VimKeys:       true,
		LogLevel:      "debug",
		ConfirmRemove: false,
		WatchRecords:  false,
	}
	require.NoError(t, original.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, original, *loaded)
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	home := withHome(t)
	writeConfig(t, home, "vim_keys: true\n")

	loaded, err := Load()
	require.NoError(t, err)
	assert.True(t, loaded.VimKeys)
	assert.True(t, loaded.ConfirmRemove)
	assert.Equal(t, "info", loaded.LogLevel)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	home := withHome(t)
	writeConfig(t, home, "invalid: yaml: content:")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadConfigRejectsUnknownValues(t *testing.T) {
	home := withHome(t)

	writeConfig(t, home, "log_level: loud\n")
	_, err := Load()
	assert.ErrorContains(t, err, "log_level")

	writeConfig(t, home, "theme: neon\n")
	_, err = LoadOrDefault()
	assert.ErrorContains(t, err, "theme")
}

func TestConfigPermissionsStrictlyEnforced(t *testing.T) {
	withHome(t)

	require.NoError(t, Default().Save())

	// Try to make it world-readable
	require.NoError(t, os.Chmod(Path(), 0644))

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "permissions")
}

func TestPathReturnsCorrectLocation(t *testing.T) {
	path := Path()
	assert.Contains(t, path, ".paramedit")
	assert.Contains(t, path, "config")
}

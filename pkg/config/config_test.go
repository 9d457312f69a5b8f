package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Browser.Headless, cfg.Browser.Headless)
	assert.Equal(t, def.Browser.SnapshotMaxChars, cfg.Browser.SnapshotMaxChars)
	assert.Equal(t, def.Workspace, cfg.Workspace)
}

func TestLoadAppliesDefaultsForOmittedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
browser:
  headless: false
markets:
  base_url: https://api.example.com
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, "https://api.example.com", cfg.Markets.BaseURL)

	def := Default()
	assert.Equal(t, def.Browser.ViewportWidth, cfg.Browser.ViewportWidth)
	assert.Equal(t, def.Browser.SnapshotMaxChars, cfg.Browser.SnapshotMaxChars)
	assert.Equal(t, def.Markets.CacheTTLSecs, cfg.Markets.CacheTTLSecs)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("browser: [not a map\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Workspace = "/data/projects"
	cfg.Markets.APIKey = "secret"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/projects", loaded.Workspace)
	assert.Equal(t, "secret", loaded.Markets.APIKey)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "config may hold API keys")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultExcludeDirs, cfg.ExcludeDirs)
	assert.Equal(t, 50, cfg.MaxDepth)
	assert.Equal(t, ".vue", cfg.ComponentExt)
	assert.Equal(t, ".js", cfg.ScriptExt)
	assert.Equal(t, "temp-analysis", cfg.StagingDirName)
	assert.Equal(t, "Plato Vue.js Maintainability Report", cfg.ReportTitle)
	assert.Equal(t, "plato-report", cfg.OutputDir)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 10, cfg.History.Limit)
	assert.True(t, cfg.Output.Color)
	assert.Equal(t, DBPath(), cfg.History.DBPath)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
exclude_dirs: [node_modules, vendor]
max_depth: 5
history:
  enabled: false
  db_path: ~/data/runs.db
output:
  color: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"node_modules", "vendor"}, cfg.ExcludeDirs)
	assert.Equal(t, 5, cfg.MaxDepth)
	assert.False(t, cfg.History.Enabled)
	assert.False(t, cfg.Output.Color)
	assert.True(t, filepath.IsAbs(cfg.History.DBPath))
	assert.Equal(t, "runs.db", filepath.Base(cfg.History.DBPath))

	// Unset keys keep their defaults.
	assert.Equal(t, ".vue", cfg.ComponentExt)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PLATOVUE_MAX_DEPTH", "7")
	t.Setenv("PLATOVUE_HISTORY_ENABLED", "false")

	cfg, err := Load(writeConfig(t, "max_depth: 3\n"))
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.MaxDepth)
	assert.False(t, cfg.History.Enabled)
}

func TestLoad_NonPositiveDepthFallsBack(t *testing.T) {
	cfg, err := Load(writeConfig(t, "max_depth: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.NoError(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, "max_depth: [unclosed\n"))
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x", "y"), expandPath("~/x/y"))
	assert.Equal(t, "/abs/path", expandPath("/abs/path"))
	assert.Equal(t, "rel", expandPath("rel"))
}

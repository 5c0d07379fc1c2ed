package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "ecs.yaml", cfg.Manifest.Path)
	assert.Equal(t, "generated", cfg.Output.Dir)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ecsgen.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[manifest]
path = "world.yaml"

[output]
dir = "out"
prefix = "demo_"

[log]
level = "debug"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "world.yaml", cfg.Manifest.Path)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, "demo_", cfg.Output.Prefix)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ecsgen.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[manifest]
path = "world.yaml"
`), 0o644))

	t.Setenv("ECSGEN_MANIFEST", "override.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "override.yaml", cfg.Manifest.Path)
}

func TestLoad_InvalidLogLevelRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ecsgen.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[log]
level = "verbose"
`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_ExplicitMissingFileErrors(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	_, err := Load(filepath.Join(dir, "does-not-exist.toml"))
	require.Error(t, err)
}

func TestResolveConfigPath_EnvVar(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "from-env.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
	t.Setenv("ECSGEN_CONFIG", path)

	assert.Equal(t, path, resolveConfigPath(""))
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(old)
	})
}

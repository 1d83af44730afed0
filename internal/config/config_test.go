package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gcode-lsp/gcode-ls/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindProjectConfigInCurrentDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gcode.toml"), []byte(`
[project]
default_flavor = "marlin"
`), 0o644))

	cfg, ok := config.FindProjectConfig(dir)
	require.True(t, ok)
	assert.Equal(t, "marlin", cfg.Project.DefaultFlavor)
}

func TestFindProjectConfigWalksParents(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gcode.toml"), []byte(`
[project]
default_flavor = "reprap"
`), 0o644))

	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, ok := config.FindProjectConfig(nested)
	require.True(t, ok)
	assert.Equal(t, "reprap", cfg.Project.DefaultFlavor)
}

func TestFindProjectConfigNoneFound(t *testing.T) {
	dir := t.TempDir()
	_, ok := config.FindProjectConfig(dir)
	assert.False(t, ok)
}

func TestDefaultServerConfig(t *testing.T) {
	cfg := config.DefaultServerConfig()
	assert.Empty(t, cfg.DefaultFlavor, "tier 2 must be unset by default so project config can resolve")
	assert.False(t, cfg.LongDescriptions)
}

package flavor_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gcode-lsp/gcode-ls/internal/flavor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFragment(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDirectoryMergesFragmentsInOrder(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "10-metadata.toml", `
[flavor]
name = "prusa"
version = "1.0"
`)
	writeFragment(t, dir, "20-extra.toml", `
[[commands]]
name = "M300"
description_short = "beep"
`)

	fl, err := flavor.LoadDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, "prusa", fl.Name)
	_, ok := fl.Get("M300")
	assert.True(t, ok)
}

func TestLoadDirectoryLaterFragmentOverridesCommand(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "10-base.toml", `
[flavor]
name = "prusa"

[[commands]]
name = "M250"
description_short = "original"
`)
	writeFragment(t, dir, "20-override.toml", `
[[commands]]
name = "M250"
description_short = "overridden"
`)

	fl, err := flavor.LoadDirectory(dir)
	require.NoError(t, err)
	cmd, ok := fl.Get("M250")
	require.True(t, ok)
	assert.Equal(t, "overridden", cmd.DescriptionShort)
}

func TestLoadDirectoryConflictingNamesIsError(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "10-a.toml", `
[flavor]
name = "prusa"
`)
	writeFragment(t, dir, "20-b.toml", `
[flavor]
name = "marlin"
`)

	_, err := flavor.LoadDirectory(dir)
	assert.Error(t, err)
}

func TestLoadDirectoryNoHeaderIsError(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "10-a.toml", `
[[commands]]
name = "M300"
`)
	_, err := flavor.LoadDirectory(dir)
	assert.Error(t, err)
}

func TestLoadEmbeddedSet(t *testing.T) {
	set, err := flavor.LoadEmbeddedSet()
	require.NoError(t, err)
	require.Contains(t, set, "prusa")
	require.Contains(t, set, "marlin")
	require.Contains(t, set, "reprap")

	prusa := set["prusa"]
	_, ok := prusa.Get("G1")
	assert.True(t, ok)
	_, ok = prusa.Get("M104")
	assert.True(t, ok)
	_, ok = prusa.Get("M106") // from the 20-fans.toml fragment
	assert.True(t, ok)
}

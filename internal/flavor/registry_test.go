package flavor_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gcode-lsp/gcode-ls/internal/flavor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, userGlobal, workspace string) *flavor.Registry {
	t.Helper()
	embedded, err := flavor.LoadEmbeddedSet()
	require.NoError(t, err)
	return flavor.NewRegistry(embedded, userGlobal, workspace, "")
}

func TestRegistryEmbeddedOnly(t *testing.T) {
	r := newTestRegistry(t, "", "")
	fl, ok := r.Get("prusa")
	require.True(t, ok)
	_, ok = fl.Get("G1")
	assert.True(t, ok)
}

func TestRegistryPrecedenceUserGlobalAddsCommand(t *testing.T) {
	userGlobal := t.TempDir()
	prusaDir := filepath.Join(userGlobal, "prusa")
	require.NoError(t, os.MkdirAll(prusaDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(prusaDir, "10-metadata.toml"), []byte(`
[flavor]
name = "prusa"
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(prusaDir, "20-extra.toml"), []byte(`
[[commands]]
name = "M300"
description_short = "beep"
`), 0o644))

	r := newTestRegistry(t, userGlobal, "")
	fl, ok := r.Get("prusa")
	require.True(t, ok)
	// user-global layer replaces the whole embedded "prusa" flavor entry,
	// per the "higher layer replaces the earlier entry entirely" rule, so
	// only what the user-global fragment directory defines is present.
	_, ok = fl.Get("M300")
	assert.True(t, ok)
}

func TestRegistryWorkspaceOverridesUserGlobal(t *testing.T) {
	userGlobal := t.TempDir()
	workspace := t.TempDir()

	ugDir := filepath.Join(userGlobal, "prusa")
	require.NoError(t, os.MkdirAll(ugDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(ugDir, "10-metadata.toml"), []byte(`
[flavor]
name = "prusa"

[[commands]]
name = "M250"
description_short = "from user-global"
`), 0o644))

	wsDir := filepath.Join(workspace, "prusa")
	require.NoError(t, os.MkdirAll(wsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(wsDir, "10-metadata.toml"), []byte(`
[flavor]
name = "prusa"

[[commands]]
name = "M250"
description_short = "from workspace"
`), 0o644))

	r := newTestRegistry(t, userGlobal, workspace)
	fl, ok := r.Get("prusa")
	require.True(t, ok)
	cmd, ok := fl.Get("M250")
	require.True(t, ok)
	assert.Equal(t, "from workspace", cmd.DescriptionShort)
}

func TestRegistryReloadFromInvalidTOMLLeavesPreviousActive(t *testing.T) {
	workspace := t.TempDir()
	wsDir := filepath.Join(workspace, "prusa")
	require.NoError(t, os.MkdirAll(wsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(wsDir, "10-metadata.toml"), []byte(`
[flavor]
name = "prusa"
`), 0o644))

	r := newTestRegistry(t, "", workspace)
	before, ok := r.Get("prusa")
	require.True(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(wsDir, "20-broken.toml"), []byte("not valid toml [[["), 0o644))

	err := r.ReloadFrom(wsDir)
	assert.Error(t, err)

	after, ok := r.Get("prusa")
	require.True(t, ok)
	assert.Equal(t, before, after)
}

func TestRegistrySubscribeNotifiedOnReload(t *testing.T) {
	workspace := t.TempDir()
	wsDir := filepath.Join(workspace, "prusa")
	require.NoError(t, os.MkdirAll(wsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(wsDir, "10-metadata.toml"), []byte(`
[flavor]
name = "prusa"
`), 0o644))

	r := newTestRegistry(t, "", workspace)

	var gotName string
	r.Subscribe(func(name string, fl flavor.Flavor) {
		gotName = name
	})

	require.NoError(t, os.WriteFile(filepath.Join(wsDir, "20-extra.toml"), []byte(`
[[commands]]
name = "M999"
`), 0o644))
	require.NoError(t, r.ReloadFrom(wsDir))

	assert.Equal(t, "PRUSA", gotName)
}

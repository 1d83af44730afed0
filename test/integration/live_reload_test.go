// Scenario test for spec.md §8 scenario 6: an invalid flavor-file write
// leaves the previously merged flavor active and reports an error rather
// than installing a partial flavor, and an open document's diagnostics stay
// as they were; a valid write after it reloads cleanly and notifies the
// registry's subscribers.
package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcode-lsp/gcode-ls/internal/config"
	"github.com/gcode-lsp/gcode-ls/internal/flavor"
	"github.com/gcode-lsp/gcode-ls/lsp"
)

func TestScenarioLiveReloadInvalidTOMLLeavesPreviousFlavorActive(t *testing.T) {
	embeddedFrag, err := flavor.ParseFragment([]byte(embeddedPrusaFragment))
	require.NoError(t, err)
	embedded := map[string]flavor.Flavor{
		"PRUSA": {Name: embeddedFrag.Header.Name, Version: embeddedFrag.Header.Version, Commands: commandMap(embeddedFrag.Commands)},
	}

	workspaceDir := t.TempDir()
	fragDir := filepath.Join(workspaceDir, "prusa")
	writeFragment(t, fragDir, "01-header.toml", embeddedPrusaFragment)

	registry := flavor.NewRegistry(embedded, "", workspaceDir, "")
	cfg := config.DefaultServerConfig()
	cfg.DefaultFlavor = "prusa"
	server := lsp.NewServer(registry, cfg)

	var reloaded []string
	registry.Subscribe(func(name string, fl flavor.Flavor) { reloaded = append(reloaded, name) })

	uri := "file:///reload.gcode"
	doc := server.DocumentManager().Open(uri, "gcode", 1, "M104 S200\n")
	before := doc.Diagnostics

	// Simulate a partial/invalid edit to the fragment directory: truncate
	// the file to unparseable TOML.
	require.NoError(t, os.WriteFile(filepath.Join(fragDir, "01-header.toml"), []byte("[flavor\nname = prusa"), 0o644))

	err = registry.ReloadFrom(fragDir)
	require.Error(t, err)
	var loadErr *flavor.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Empty(t, reloaded, "subscribers must not fire for a failed reload")

	stillGood, ok := registry.Get("prusa")
	require.True(t, ok)
	m104, ok := stillGood.Get("M104")
	require.True(t, ok)
	assert.Equal(t, "Set hotend temperature (embedded)", m104.DescriptionShort)

	server.DocumentManager().Touch(uri)
	after := server.Document(uri).Diagnostics
	assert.Equal(t, before, after, "diagnostics for the open document must be unchanged by a failed reload")
}

func TestScenarioLiveReloadValidChangeInstallsAndNotifies(t *testing.T) {
	embeddedFrag, err := flavor.ParseFragment([]byte(embeddedPrusaFragment))
	require.NoError(t, err)
	embedded := map[string]flavor.Flavor{
		"PRUSA": {Name: embeddedFrag.Header.Name, Version: embeddedFrag.Header.Version, Commands: commandMap(embeddedFrag.Commands)},
	}

	workspaceDir := t.TempDir()
	fragDir := filepath.Join(workspaceDir, "prusa")
	writeFragment(t, fragDir, "01-header.toml", embeddedPrusaFragment)

	registry := flavor.NewRegistry(embedded, "", workspaceDir, "")
	var reloaded []string
	registry.Subscribe(func(name string, fl flavor.Flavor) { reloaded = append(reloaded, name) })

	writeFragment(t, fragDir, "02-add-tone.toml", userGlobalAddFragment)
	require.NoError(t, registry.ReloadFrom(fragDir))

	require.Len(t, reloaded, 1)
	assert.Equal(t, "PRUSA", reloaded[0])

	merged, ok := registry.Get("prusa")
	require.True(t, ok)
	_, ok = merged.Get("M300")
	assert.True(t, ok, "the newly added command must be visible after a valid reload")
}

// Package testutil builds fixtures for the end-to-end scenarios in
// SPEC_FULL.md §13, grounded on test/integration/testutil/fixtures.go from
// the teacher: a real *lsp.Server plus thin helpers to open a document and
// drive a request through it exactly as an editor would.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/gcode-lsp/gcode-ls/internal/config"
	"github.com/gcode-lsp/gcode-ls/internal/flavor"
	"github.com/gcode-lsp/gcode-ls/lsp"
	"github.com/gcode-lsp/gcode-ls/lsp/methods/textDocument"
	"github.com/gcode-lsp/gcode-ls/lsp/types"
)

// NewTestServer builds a server around embedded, with serverDefaultFlavor as
// the tier-2 default, and no user-global/workspace/caller-dir layers —
// enough for tests that exercise a single in-memory flavor set without
// touching the filesystem.
func NewTestServer(t *testing.T, embedded map[string]flavor.Flavor, serverDefaultFlavor string) *lsp.Server {
	t.Helper()
	registry := flavor.NewRegistry(embedded, "", "", "")
	cfg := config.DefaultServerConfig()
	cfg.DefaultFlavor = serverDefaultFlavor
	return lsp.NewServer(registry, cfg)
}

// OpenDocument drives textDocument/didOpen through server exactly as the
// transport layer would, so the document's flavor resolution and first
// validation pass happen through the real handler, not a manager shortcut.
func OpenDocument(t *testing.T, server *lsp.Server, uri, text string) {
	t.Helper()
	req := types.NewRequestContext(server, nil)
	err := textDocument.DidOpen(req, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri,
			LanguageID: "gcode",
			Version:    1,
			Text:       text,
		},
	})
	require.NoError(t, err)
}

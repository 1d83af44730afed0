// Package textDocument implements the textDocument/didOpen,
// textDocument/didChange and textDocument/didClose notifications, grounded
// on lsp/methods/textDocument/lifecycle.go from the teacher: each delegates
// to the document manager, then republishes diagnostics on the new state.
package textDocument

import (
	"github.com/gcode-lsp/gcode-ls/internal/log"
	"github.com/gcode-lsp/gcode-ls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidOpen handles the textDocument/didOpen notification.
func DidOpen(req *types.RequestContext, params *protocol.DidOpenTextDocumentParams) error {
	log.Info("document opened: %s (language: %s, version: %d)",
		params.TextDocument.URI, params.TextDocument.LanguageID, int(params.TextDocument.Version))

	req.Server.DocumentManager().Open(
		params.TextDocument.URI,
		params.TextDocument.LanguageID,
		int(params.TextDocument.Version),
		params.TextDocument.Text,
	)

	if glspCtx := req.Server.GLSPContext(); glspCtx != nil {
		if err := req.Server.PublishDiagnostics(glspCtx, params.TextDocument.URI); err != nil {
			log.Warn("failed to publish diagnostics for %s: %v", params.TextDocument.URI, err)
		}
	}
	return nil
}

// DidChange handles the textDocument/didChange notification.
func DidChange(req *types.RequestContext, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	version := int(params.TextDocument.Version)
	log.Info("document changed: %s (version: %d, changes: %d)", uri, version, len(params.ContentChanges))

	changes := make([]protocol.TextDocumentContentChangeEvent, 0, len(params.ContentChanges))
	for _, change := range params.ContentChanges {
		if event, ok := change.(protocol.TextDocumentContentChangeEvent); ok {
			changes = append(changes, event)
		}
	}

	req.Server.DocumentManager().Change(uri, version, changes)

	if glspCtx := req.Server.GLSPContext(); glspCtx != nil {
		if err := req.Server.PublishDiagnostics(glspCtx, uri); err != nil {
			log.Warn("failed to publish diagnostics for %s: %v", uri, err)
		}
	}
	return nil
}

// DidClose handles the textDocument/didClose notification.
func DidClose(req *types.RequestContext, params *protocol.DidCloseTextDocumentParams) error {
	log.Info("document closed: %s", params.TextDocument.URI)
	req.Server.DocumentManager().Close(params.TextDocument.URI)
	return nil
}

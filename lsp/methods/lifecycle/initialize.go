// Package lifecycle implements the LSP lifecycle methods (initialize,
// initialized, shutdown, $/setTrace), grounded on
// lsp/methods/lifecycle/*.go from the teacher.
package lifecycle

import (
	"github.com/gcode-lsp/gcode-ls/internal/log"
	"github.com/gcode-lsp/gcode-ls/internal/uriutil"
	"github.com/gcode-lsp/gcode-ls/internal/version"
	"github.com/gcode-lsp/gcode-ls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Initialize handles the LSP initialize request, recording the workspace
// root and the client's capabilities, and advertising this server's
// capabilities in return.
func Initialize(req *types.RequestContext, params *protocol.InitializeParams) (any, error) {
	clientName := "unknown"
	if params.ClientInfo != nil {
		clientName = params.ClientInfo.Name
	}
	log.Info("initializing for client: %s", clientName)

	req.Server.SetClientCapabilities(params.Capabilities)

	if params.RootURI != nil {
		req.Server.SetRootURI(*params.RootURI)
		req.Server.SetRootPath(uriutil.URIToPath(*params.RootURI))
	} else if params.RootPath != nil {
		req.Server.SetRootPath(*params.RootPath)
		req.Server.SetRootURI(uriutil.PathToURI(*params.RootPath))
	}

	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities := protocol.ServerCapabilities{
		TextDocumentSync: protocol.TextDocumentSyncOptions{
			OpenClose: boolPtr(true),
			Change:    &syncKind,
		},
		HoverProvider: boolPtr(true),
		CompletionProvider: &protocol.CompletionOptions{
			ResolveProvider: boolPtr(false),
		},
		DocumentSymbolProvider: boolPtr(true),
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    "gcode-language-server",
			Version: strPtr(version.GetVersion()),
		},
	}, nil
}

func boolPtr(b bool) *bool { return &b }
func strPtr(s string) *string { return &s }

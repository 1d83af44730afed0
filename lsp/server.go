// Package lsp wires the protocol-independent core (internal/flavor,
// internal/gdoc) to glsp's JSON-RPC transport, grounded on lsp/server.go
// from the teacher: one Server type implementing types.ServerContext,
// built from a protocol.Handler whose fields are each a core handler
// wrapped by the method/notify/noParam middleware in middleware.go.
package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/gcode-lsp/gcode-ls/internal/config"
	"github.com/gcode-lsp/gcode-ls/internal/flavor"
	"github.com/gcode-lsp/gcode-ls/internal/gdoc"
	"github.com/gcode-lsp/gcode-ls/internal/log"
	"github.com/gcode-lsp/gcode-ls/lsp/methods/lifecycle"
	"github.com/gcode-lsp/gcode-ls/lsp/methods/textDocument"
	"github.com/gcode-lsp/gcode-ls/lsp/methods/textDocument/completion"
	"github.com/gcode-lsp/gcode-ls/lsp/methods/textDocument/diagnostic"
	"github.com/gcode-lsp/gcode-ls/lsp/methods/textDocument/documentSymbol"
	"github.com/gcode-lsp/gcode-ls/lsp/methods/textDocument/hover"
	"github.com/gcode-lsp/gcode-ls/lsp/methods/workspace"
	"github.com/gcode-lsp/gcode-ls/lsp/types"
)

// Verify Server satisfies the handler-facing dependency interface.
var _ types.ServerContext = (*Server)(nil)

// Server is the gcode language server. It owns the flavor registry and the
// document manager, and bridges them to glsp's transport and lifecycle.
type Server struct {
	registry  *flavor.Registry
	documents *gdoc.Manager

	glspServer *glspserver.Server
	glspCtx    *glsp.Context

	rootURI  string
	rootPath string
	config   config.ServerConfig
	caps     *protocol.ClientCapabilities
}

// NewServer constructs a Server bound to registry, with cfg as its
// startup configuration (tier 2 of the flavor resolution precedence, and
// the long-descriptions / log-level settings from the CLI surface).
func NewServer(registry *flavor.Registry, cfg config.ServerConfig) *Server {
	s := &Server{
		registry:  registry,
		documents: gdoc.NewManager(registry, cfg.DefaultFlavor),
		config:    cfg,
	}

	handler := protocol.Handler{
		Initialize:                      method(s, "initialize", lifecycle.Initialize),
		Initialized:                     notify(s, "initialized", lifecycle.Initialized),
		Shutdown:                        noParam(s, "shutdown", lifecycle.Shutdown),
		SetTrace:                        notify(s, "$/setTrace", lifecycle.SetTrace),
		WorkspaceDidChangeConfiguration: notify(s, "workspace/didChangeConfiguration", workspace.DidChangeConfiguration),
		WorkspaceDidChangeWatchedFiles:  notify(s, "workspace/didChangeWatchedFiles", workspace.DidChangeWatchedFiles),
		TextDocumentDidOpen:             notify(s, "textDocument/didOpen", textDocument.DidOpen),
		TextDocumentDidChange:           notify(s, "textDocument/didChange", textDocument.DidChange),
		TextDocumentDidClose:            notify(s, "textDocument/didClose", textDocument.DidClose),
		TextDocumentHover:               method(s, "textDocument/hover", hover.Hover),
		TextDocumentCompletion:          method(s, "textDocument/completion", completion.Completion),
		TextDocumentDocumentSymbol:      method(s, "textDocument/documentSymbol", documentSymbol.DocumentSymbol),
	}

	s.glspServer = glspserver.NewServer(&handler, "gcode-language-server", false)

	registry.Subscribe(func(name string, fl flavor.Flavor) {
		log.Info("flavor %q reloaded (version %s)", name, fl.Version)
		s.republishAll()
	})

	return s
}

// RunStdio runs the server over stdin/stdout, the transport named in
// SPEC_FULL.md §11.
func (s *Server) RunStdio() error {
	return s.glspServer.RunStdio()
}

// Close releases the flavor registry's filesystem watcher.
func (s *Server) Close() error {
	return s.registry.Close()
}

// republishAll recomputes and republishes diagnostics for every open
// document, used after a live flavor reload so open documents reflect
// the new schema.
func (s *Server) republishAll() {
	if s.glspCtx == nil {
		return
	}
	for _, doc := range s.documents.All() {
		s.documents.Touch(doc.URI)
		if err := s.PublishDiagnostics(s.glspCtx, doc.URI); err != nil {
			log.Warn("republish diagnostics for %s: %v", doc.URI, err)
		}
	}
}

// Document returns the document with the given URI, or nil if it is not
// open.
func (s *Server) Document(uri string) *gdoc.Document {
	return s.documents.Get(uri)
}

// DocumentManager returns the document manager.
func (s *Server) DocumentManager() *gdoc.Manager {
	return s.documents
}

// AllDocuments returns every currently open document.
func (s *Server) AllDocuments() []*gdoc.Document {
	return s.documents.All()
}

// Registry returns the flavor registry.
func (s *Server) Registry() *flavor.Registry {
	return s.registry
}

// RootURI returns the workspace root URI.
func (s *Server) RootURI() string { return s.rootURI }

// RootPath returns the workspace root path.
func (s *Server) RootPath() string { return s.rootPath }

// SetRootURI sets the workspace root URI.
func (s *Server) SetRootURI(uri string) { s.rootURI = uri }

// SetRootPath sets the workspace root path.
func (s *Server) SetRootPath(path string) { s.rootPath = path }

// Config returns the server's current configuration.
func (s *Server) Config() config.ServerConfig { return s.config }

// SetConfig replaces the server's configuration.
func (s *Server) SetConfig(cfg config.ServerConfig) { s.config = cfg }

// GLSPContext returns the context used to send server-initiated
// notifications, or nil before "initialized" is received.
func (s *Server) GLSPContext() *glsp.Context { return s.glspCtx }

// SetGLSPContext records the context used to send server-initiated
// notifications.
func (s *Server) SetGLSPContext(ctx *glsp.Context) { s.glspCtx = ctx }

// ClientCapabilities returns the capabilities the client declared at
// initialize, or nil before that request completes.
func (s *Server) ClientCapabilities() *protocol.ClientCapabilities { return s.caps }

// SetClientCapabilities records the client's declared capabilities.
func (s *Server) SetClientCapabilities(caps protocol.ClientCapabilities) { s.caps = &caps }

// PublishDiagnostics sends a textDocument/publishDiagnostics notification
// for uri carrying the diagnostics the document manager cached at its last
// re-parse; it does not re-validate the document itself.
func (s *Server) PublishDiagnostics(context *glsp.Context, uri string) error {
	diags, err := diagnostic.GetDiagnostics(s, uri)
	if err != nil {
		return err
	}
	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
	return nil
}

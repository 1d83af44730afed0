// Package types holds the dependency-injection surface shared by every LSP
// method handler, grounded on lsp/types/context.go and request_context.go
// from the teacher: a single ServerContext interface instead of
// handler-specific ones, so handlers stay testable against fakes.
package types

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/gcode-lsp/gcode-ls/internal/config"
	"github.com/gcode-lsp/gcode-ls/internal/flavor"
	"github.com/gcode-lsp/gcode-ls/internal/gdoc"
)

// ServerContext provides every dependency an LSP method handler needs.
type ServerContext interface {
	// Document operations
	Document(uri string) *gdoc.Document
	DocumentManager() *gdoc.Manager
	AllDocuments() []*gdoc.Document

	// Flavor registry
	Registry() *flavor.Registry

	// Workspace
	RootURI() string
	RootPath() string
	SetRootURI(uri string)
	SetRootPath(path string)

	// Configuration
	Config() config.ServerConfig
	SetConfig(cfg config.ServerConfig)

	// LSP context, for publishing diagnostics and other server-initiated notifications
	GLSPContext() *glsp.Context
	SetGLSPContext(ctx *glsp.Context)

	// Diagnostics publishing
	PublishDiagnostics(context *glsp.Context, uri string) error

	// ClientCapabilities returns the capabilities the client declared at
	// initialize, or nil before initialize completes.
	ClientCapabilities() *protocol.ClientCapabilities
	SetClientCapabilities(caps protocol.ClientCapabilities)
}

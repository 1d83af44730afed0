package workspace

import (
	"strings"

	"github.com/gcode-lsp/gcode-ls/internal/config"
	"github.com/gcode-lsp/gcode-ls/internal/log"
	"github.com/gcode-lsp/gcode-ls/internal/uriutil"
	"github.com/gcode-lsp/gcode-ls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeWatchedFiles handles the workspace/didChangeWatchedFiles
// notification. The flavor registry watches its own layer directories
// directly via fsnotify (internal/flavor.Registry.WatchLayers), so this
// handler only needs to react to a project configuration file changing:
// that changes each open document's tier-3 flavor resolution, which is
// re-evaluated lazily on the next reparse, so all that's needed here is to
// trigger one.
func DidChangeWatchedFiles(req *types.RequestContext, params *protocol.DidChangeWatchedFilesParams) error {
	touchedProjectConfig := false
	for _, change := range params.Changes {
		if strings.HasSuffix(uriutil.URIToPath(change.URI), "/"+config.ProjectFileName) {
			touchedProjectConfig = true
		}
	}
	if !touchedProjectConfig {
		return nil
	}

	log.Info("%s changed; re-resolving flavor for open documents", config.ProjectFileName)

	glspCtx := req.Server.GLSPContext()
	for _, doc := range req.Server.AllDocuments() {
		req.Server.DocumentManager().Touch(doc.URI)
		if glspCtx != nil {
			if err := req.Server.PublishDiagnostics(glspCtx, doc.URI); err != nil {
				log.Warn("failed to publish diagnostics for %s: %v", doc.URI, err)
			}
		}
	}
	return nil
}

package lifecycle

import (
	"github.com/gcode-lsp/gcode-ls/internal/log"
	"github.com/gcode-lsp/gcode-ls/lsp/types"
)

// Shutdown handles the LSP shutdown request.
func Shutdown(req *types.RequestContext) error {
	log.Info("server shutting down")
	return nil
}

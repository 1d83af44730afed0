package lifecycle

import (
	"github.com/gcode-lsp/gcode-ls/internal/log"
	"github.com/gcode-lsp/gcode-ls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Initialized handles the initialized notification, the point at which the
// client connection is ready for server-initiated requests (registrations,
// window/logMessage).
func Initialized(req *types.RequestContext, params *protocol.InitializedParams) error {
	log.Info("server initialized")
	req.Server.SetGLSPContext(req.GLSP)
	return nil
}

package lifecycle

import (
	"github.com/gcode-lsp/gcode-ls/internal/log"
	"github.com/gcode-lsp/gcode-ls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// SetTrace handles the $/setTrace notification.
func SetTrace(req *types.RequestContext, params *protocol.SetTraceParams) error {
	log.Info("trace level set to: %s", params.Value)
	return nil
}

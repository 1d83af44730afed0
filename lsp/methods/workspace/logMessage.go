// Package workspace holds the window/log notification helpers and the
// workspace/didChange* notification handlers, grounded on
// lsp/methods/workspace/logMessage.go and didChangeWatchedFiles.go from the
// teacher.
package workspace

import (
	"fmt"
	"os"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// LogError logs an error to stderr and, if a client connection is attached,
// surfaces it via window/logMessage.
func LogError(context *glsp.Context, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "[GCLS ERROR] %s\n", message)
	if context != nil {
		go func() {
			context.Notify(protocol.ServerWindowLogMessage, &protocol.LogMessageParams{
				Type:    protocol.MessageTypeError,
				Message: message,
			})
		}()
	}
}

// LogWarning logs a warning to stderr and, if a client connection is
// attached, surfaces it via window/logMessage.
func LogWarning(context *glsp.Context, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "[GCLS WARNING] %s\n", message)
	if context != nil {
		go func() {
			context.Notify(protocol.ServerWindowLogMessage, &protocol.LogMessageParams{
				Type:    protocol.MessageTypeWarning,
				Message: message,
			})
		}()
	}
}

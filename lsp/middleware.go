package lsp

import (
	"fmt"
	"runtime/debug"

	"github.com/tliron/glsp"

	"github.com/gcode-lsp/gcode-ls/internal/log"
	"github.com/gcode-lsp/gcode-ls/lsp/methods/workspace"
	"github.com/gcode-lsp/gcode-ls/lsp/types"
)

// method wraps an LSP request handler that returns (result, error) with
// logging, panic recovery, and warning propagation, grounded on
// lsp/middleware.go from the teacher — the generic signature lets every
// protocol.Handler field in server.go share one wrapper.
func method[P, R any](
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext, P) (R, error),
) func(*glsp.Context, P) (R, error) {
	return func(glspCtx *glsp.Context, params P) (result R, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic in %s: %v\n%s", methodName, r, debug.Stack())
				workspace.LogError(glspCtx, "internal error in %s: %v", methodName, r)
				err = fmt.Errorf("internal error in %s", methodName)
				var zero R
				result = zero
			}
		}()

		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, glspCtx)
		result, err = handler(req, params)

		if err == nil {
			for _, w := range req.Warnings() {
				workspace.LogWarning(glspCtx, "%s: %v", methodName, w)
			}
			log.Debug("%s completed", methodName)
			return result, nil
		}

		log.Error("%s error: %v", methodName, err)
		workspace.LogError(glspCtx, "%s: %v", methodName, err)
		return result, fmt.Errorf("%s: %w", methodName, err)
	}
}

// notify wraps an LSP notification handler that returns only an error.
func notify[P any](
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext, P) error,
) func(*glsp.Context, P) error {
	return func(glspCtx *glsp.Context, params P) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic in %s: %v\n%s", methodName, r, debug.Stack())
				workspace.LogError(glspCtx, "internal error in %s: %v", methodName, r)
				err = fmt.Errorf("internal error in %s", methodName)
			}
		}()

		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, glspCtx)
		err = handler(req, params)

		if err == nil {
			for _, w := range req.Warnings() {
				workspace.LogWarning(glspCtx, "%s: %v", methodName, w)
			}
			log.Debug("%s completed", methodName)
			return nil
		}

		log.Error("%s error: %v", methodName, err)
		workspace.LogError(glspCtx, "%s: %v", methodName, err)
		return fmt.Errorf("%s: %w", methodName, err)
	}
}

// noParam wraps an LSP handler that takes no params, such as Shutdown.
func noParam(
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext) error,
) func(*glsp.Context) error {
	return func(glspCtx *glsp.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic in %s: %v\n%s", methodName, r, debug.Stack())
				workspace.LogError(glspCtx, "internal error in %s: %v", methodName, r)
				err = fmt.Errorf("internal error in %s", methodName)
			}
		}()

		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, glspCtx)
		err = handler(req)

		if err == nil {
			for _, w := range req.Warnings() {
				workspace.LogWarning(glspCtx, "%s: %v", methodName, w)
			}
			log.Debug("%s completed", methodName)
			return nil
		}

		log.Error("%s error: %v", methodName, err)
		workspace.LogError(glspCtx, "%s: %v", methodName, err)
		return fmt.Errorf("%s: %w", methodName, err)
	}
}

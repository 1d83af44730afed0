package types

import (
	"github.com/tliron/glsp"
)

// RequestContext wraps the server-wide ServerContext and the GLSP protocol
// context for the lifetime of one method call, and accumulates non-fatal
// warnings the middleware surfaces to the client after the handler returns.
type RequestContext struct {
	Server   ServerContext
	GLSP     *glsp.Context
	warnings []error
}

// NewRequestContext creates a request-scoped context for one handler call.
func NewRequestContext(server ServerContext, glspCtx *glsp.Context) *RequestContext {
	return &RequestContext{Server: server, GLSP: glspCtx}
}

// AddWarning records a non-fatal warning to be logged once the handler
// returns without a fatal error.
func (r *RequestContext) AddWarning(err error) {
	if err != nil {
		r.warnings = append(r.warnings, err)
	}
}

// Warnings returns every warning recorded during this request.
func (r *RequestContext) Warnings() []error {
	return r.warnings
}

// HasWarnings reports whether any warning was recorded.
func (r *RequestContext) HasWarnings() bool {
	return len(r.warnings) > 0
}

// Package diagnostic adapts internal/validate.Diagnostic into LSP
// protocol.Diagnostic values for textDocument/publishDiagnostics,
// grounded on lsp/methods/textDocument/diagnostic/diagnostic.go from the
// teacher's GetDiagnostics helper (there exposed as a pull-diagnostics
// handler; here only the push path from SPEC_FULL.md §11's transport list
// is wired, so this package has no request handler of its own).
package diagnostic

import (
	"github.com/gcode-lsp/gcode-ls/internal/position"
	"github.com/gcode-lsp/gcode-ls/internal/validate"
	"github.com/gcode-lsp/gcode-ls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// GetDiagnostics returns the current diagnostics for uri, translated to
// LSP's protocol.Diagnostic shape. It always returns a non-nil slice —
// returning nil would serialize to JSON null, which some clients treat as
// an error rather than "no diagnostics".
func GetDiagnostics(ctx types.ServerContext, uri string) ([]protocol.Diagnostic, error) {
	doc := ctx.Document(uri)
	if doc == nil {
		return []protocol.Diagnostic{}, nil
	}

	out := make([]protocol.Diagnostic, 0, len(doc.Diagnostics))
	for _, d := range doc.Diagnostics {
		out = append(out, toProtocolDiagnostic(d))
	}
	return out, nil
}

func toProtocolDiagnostic(d validate.Diagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	if d.Severity == validate.SeverityWarning {
		severity = protocol.DiagnosticSeverityWarning
	}
	source := "gcode-ls"
	code := string(d.Kind)
	return protocol.Diagnostic{
		Range:    toProtocolRange(d.Range),
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: code},
		Source:   &source,
		Message:  d.Message,
	}
}

func toProtocolRange(r position.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: r.Start.Line, Character: r.Start.Character},
		End:   protocol.Position{Line: r.End.Line, Character: r.End.Character},
	}
}

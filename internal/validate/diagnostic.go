// Package validate runs the declarative per-command checks from a Flavor's
// CommandDef against a parsed gcommand.Command, producing protocol-
// independent Diagnostics. lsp/methods/textDocument/diagnostic adapts these
// to LSP protocol.Diagnostic for publishing.
package validate

import "github.com/gcode-lsp/gcode-ls/internal/position"

// Severity mirrors LSP's DiagnosticSeverity without depending on glsp.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Kind is the validation error taxonomy from SPEC_FULL.md §12.
type Kind string

const (
	UnknownCommand     Kind = "UnknownCommand"
	UnknownParameter   Kind = "UnknownParameter"
	MissingRequired    Kind = "MissingRequired"
	InvalidType        Kind = "InvalidType"
	ConstraintViolation Kind = "ConstraintViolation"
	ConstraintError    Kind = "ConstraintError"
)

// Diagnostic is one validation finding attached to a source range.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Range    position.Range
	Message  string
}

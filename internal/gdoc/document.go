// Package gdoc owns per-document state: source text, the parsed command
// list, cached diagnostics, and the resolved active flavor. It is the
// document service from SPEC_FULL.md §8, grounded directly on
// internal/documents/document.go and manager.go from the teacher — text
// storage, revision handling, and incremental-edit application follow that
// shape, generalized from CSS tokens to G-code commands.
package gdoc

import (
	"github.com/gcode-lsp/gcode-ls/internal/gcommand"
	"github.com/gcode-lsp/gcode-ls/internal/gtoken"
	"github.com/gcode-lsp/gcode-ls/internal/position"
	"github.com/gcode-lsp/gcode-ls/internal/validate"
)

// ResolutionSource names which tier of SPEC_FULL.md §5's precedence
// chain produced a document's active flavor.
type ResolutionSource uint8

const (
	SourceModeline ResolutionSource = iota
	SourceServerDefault
	SourceProjectConfig
	SourceFallback
)

func (s ResolutionSource) String() string {
	switch s {
	case SourceModeline:
		return "modeline"
	case SourceServerDefault:
		return "server-default"
	case SourceProjectConfig:
		return "project-config"
	case SourceFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// FlavorResolution records which flavor name is active for a document and
// where that name came from. Degraded holds when the name did not resolve
// to a registry entry: tokenization and positional features still work,
// but no UnknownCommand diagnostics are emitted (SPEC_FULL.md §5).
type FlavorResolution struct {
	Source   ResolutionSource
	Name     string
	Degraded bool
}

// Line is one parsed line of the document: its raw text, tokens, and the
// Command built from them if the line held one (blank and comment-only
// lines carry tokens but no Command). Text is a zero-copy slice of the
// document's own buffer, not a line terminator included.
type Line struct {
	Text      string
	ByteStart int
	Tokens    []gtoken.Token
	Command   gcommand.Command
	HasCmd    bool
}

// Document is the exclusively-owned per-URI record the Manager tracks. Its
// Diagnostics/DiagRevision pair is the revision invariant from
// SPEC_FULL.md §8: diagnostics always correspond to the text of
// Revision, and a diagnostic batch for an older revision is never
// published after a newer one.
type Document struct {
	URI        string
	LanguageID string
	// Version is the editor-supplied document version from didOpen/didChange.
	Version int
	// Revision is this service's own monotonic counter, bumped on every
	// re-parse (Open, Change, Touch), including one whose text is
	// unchanged — independent of the editor's Version.
	Revision uint64

	Text  string
	Lines []Line

	Flavor FlavorResolution

	Diagnostics  []validate.Diagnostic
	DiagRevision uint64
}

// TokenAt returns the token at the given absolute byte offset, if any.
func (d *Document) TokenAt(byteOffset int) (gtoken.Token, bool) {
	for _, line := range d.Lines {
		if tok, ok := gtoken.TokenAt(line.Tokens, byteOffset); ok {
			return tok, true
		}
	}
	return gtoken.Token{}, false
}

// CommandAtLine returns the parsed Command for the given 0-based line
// number, if that line held one.
func (d *Document) CommandAtLine(line uint32) (gcommand.Command, bool) {
	if int(line) >= len(d.Lines) {
		return gcommand.Command{}, false
	}
	l := d.Lines[line]
	return l.Command, l.HasCmd
}

// ByteOffsetAt converts an LSP position (line, UTF-16 character) into an
// absolute byte offset into the document's text, using the target line's
// own text to account for multi-byte runes. Returns ok=false past the end
// of the document; a character beyond the line's length clamps to the
// line's end, matching LSP's tolerance for stale client positions.
func (d *Document) ByteOffsetAt(pos position.Position) (int, bool) {
	if int(pos.Line) >= len(d.Lines) {
		return 0, false
	}
	line := d.Lines[pos.Line]
	col := position.UTF16ToByteOffset(line.Text, int(pos.Character))
	return line.ByteStart + col, true
}

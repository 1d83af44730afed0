// Package gtoken is the streaming, zero-copy tokenizer for G-code source
// text. Every Token's Text is a subslice of the buffer it was tokenized
// from — tokenizing never allocates per-token text, only the slice header.
package gtoken

import "github.com/gcode-lsp/gcode-ls/internal/position"

// Kind classifies a Token. There is no Whitespace kind: runs of spaces and
// tabs between tokens are never tokenized, matching spec.md's "Whitespace?"
// as an explicitly optional, unused variant.
type Kind uint8

const (
	// Command is a line-leading code like G1, M104, M862.3, or T0.
	Command Kind = iota
	// Parameter is a letter-prefixed value like X10, S200, or a bare F.
	Parameter
	// Comment is a ";..." or single-line "(...)" remark, delimiter included.
	Comment
)

func (k Kind) String() string {
	switch k {
	case Command:
		return "Command"
	case Parameter:
		return "Parameter"
	case Comment:
		return "Comment"
	default:
		return "Unknown"
	}
}

// Token is a positioned, borrowed slice of source text. Its lifetime is
// tied to the buffer it was cut from — a document's full-sync replace on
// didChange must drop every Token derived from the old text before the new
// text is tokenized.
type Token struct {
	Kind Kind
	// Text is the exact source slice for this token, delimiter included
	// for comments, case preserved as written for commands/parameters.
	Text string
	// ByteStart and ByteEnd are absolute byte offsets into the buffer this
	// token was produced from (the whole document for TokenizeText/stream
	// results, or the line alone for a standalone TokenizeLine call using
	// lineBaseOffset 0).
	ByteStart, ByteEnd int
	// Line is the 0-based source line this token appears on.
	Line uint32
	// Malformed is set when a parameter token's value failed to lex as a
	// number, quoted string, or bare letter — tokenizing still produces a
	// token so the line is never abandoned (spec.md §4.1 fault tolerance).
	Malformed bool
	// Range is the token's span expressed as LSP Positions (UTF-16 columns).
	Range position.Range
}

// Contains reports whether the given absolute byte offset falls within
// this token's [ByteStart, ByteEnd) span.
func (t Token) Contains(byteOffset int) bool {
	return byteOffset >= t.ByteStart && byteOffset < t.ByteEnd
}

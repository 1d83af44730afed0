// Package gcommand groups a line's tokens from internal/gtoken into a
// Command AST: one command code plus its ordered parameters. It performs no
// schema lookups of its own — internal/validate does that against the
// result.
package gcommand

import (
	"strconv"
	"strings"

	"github.com/gcode-lsp/gcode-ls/internal/collections"
	"github.com/gcode-lsp/gcode-ls/internal/gtoken"
	"github.com/gcode-lsp/gcode-ls/internal/position"
)

// ValueKind classifies a Parameter's derived typed value.
type ValueKind uint8

const (
	Missing ValueKind = iota
	Int
	Float
	Bool
	String
)

// Value is the typed interpretation of a parameter's ValueText. Kind
// Missing means the text didn't parse as any recognized shape (bare letter,
// or a malformed token carried over from the tokenizer).
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Bool  bool
	Str   string
}

// Parameter is one letter-prefixed value on a command line.
type Parameter struct {
	// Letter is the uppercased parameter letter, e.g. "X", "S", "F".
	Letter string
	// ValueText is the raw value as written, quotes kept for strings
	// (Value.Str holds the unquoted text), empty for a bare letter parameter.
	ValueText string
	Value     Value
	// Malformed mirrors the source token's Malformed flag.
	Malformed bool
	Range     position.Range
	Token     gtoken.Token
}

// Command is the parsed form of one G-code line: a command code plus its
// parameters in source order.
type Command struct {
	// Code is the command token text, uppercased (e.g. "G1", "M862.3").
	Code       string
	Parameters []Parameter
	Range      position.Range
	Token      gtoken.Token
}

// ParseLine builds a Command from the tokens of a single line, as produced
// by gtoken.TokenizeLine. It returns ok=false if the line holds no command
// token — a blank line or a comment-only line.
func ParseLine(tokens []gtoken.Token) (Command, bool) {
	var cmd Command
	sawCommand := false

	for _, tok := range tokens {
		switch tok.Kind {
		case gtoken.Comment:
			continue

		case gtoken.Command:
			if !sawCommand {
				cmd.Code = strings.ToUpper(tok.Text)
				cmd.Token = tok
				cmd.Range = tok.Range
				sawCommand = true
			}

		case gtoken.Parameter:
			if !sawCommand {
				// The tokenizer emits Command only when a line's first token
				// (a leading comment included) is command-shaped, so a
				// parameter seen first means the line holds no command, as in
				// "X10" or "(note) G1 X10"; such parameters are skipped.
				continue
			}
			cmd.Parameters = append(cmd.Parameters, newParameter(tok))
			cmd.Range.End = tok.Range.End
		}
	}

	return cmd, sawCommand
}

func newParameter(tok gtoken.Token) Parameter {
	letter := tok.Text
	valueText := ""
	if len(letter) > 1 {
		valueText = letter[1:]
		letter = letter[:1]
	}
	letter = strings.ToUpper(letter)

	p := Parameter{
		Letter:    letter,
		ValueText: valueText,
		Malformed: tok.Malformed,
		Range:     tok.Range,
		Token:     tok,
	}
	p.Value = deriveValue(valueText, tok.Malformed)
	return p
}

// deriveValue interprets a parameter's raw value text. Quoted strings have
// already had their delimiters kept by the tokenizer, so they're stripped
// here; everything else is tried as an integer, then a float, then treated
// as Missing.
func deriveValue(valueText string, malformed bool) Value {
	if malformed {
		return Value{Kind: Missing}
	}
	if valueText == "" {
		return Value{Kind: Missing}
	}
	if len(valueText) >= 2 && valueText[0] == '"' && valueText[len(valueText)-1] == '"' {
		return Value{Kind: String, Str: valueText[1 : len(valueText)-1]}
	}
	if b, ok := parseBool(valueText); ok {
		return Value{Kind: Bool, Bool: b}
	}
	if i, err := strconv.ParseInt(valueText, 10, 64); err == nil {
		return Value{Kind: Int, Int: i, Float: float64(i)}
	}
	if f, err := strconv.ParseFloat(valueText, 64); err == nil {
		return Value{Kind: Float, Float: f}
	}
	return Value{Kind: Missing}
}

// parseBool recognizes the handful of literal spellings G-code boolean
// parameters use; it never matches "0"/"1" since those are legitimately
// numeric parameter values elsewhere (e.g. M82/M83 style on/off codes stay
// Int and let the validator coerce against the declared type).
func parseBool(valueText string) (bool, bool) {
	switch strings.ToLower(valueText) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

// Get returns the first parameter with the given uppercase letter, if any.
// Duplicate letters are preserved in Parameters in source order; validation
// decides whether a duplicate is an error, so Get always returns the first.
func (c Command) Get(letter string) (Parameter, bool) {
	for _, p := range c.Parameters {
		if p.Letter == letter {
			return p, true
		}
	}
	return Parameter{}, false
}

// Has reports whether any parameter with the given uppercase letter appears.
func (c Command) Has(letter string) bool {
	_, ok := c.Get(letter)
	return ok
}

// LetterSet returns the set of parameter letters present on the command.
// internal/validate builds one per occurrence to answer the repeated
// membership checks a command-level constraint list makes (require_any_of,
// require_all_of, mutually_exclusive all test several letters at once)
// without rescanning Parameters for every letter.
func (c Command) LetterSet() collections.Set[string] {
	s := collections.NewSet[string]()
	for _, p := range c.Parameters {
		s.Add(p.Letter)
	}
	return s
}

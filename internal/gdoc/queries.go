package gdoc

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/gcode-lsp/gcode-ls/internal/flavor"
	"github.com/gcode-lsp/gcode-ls/internal/gtoken"
	"github.com/gcode-lsp/gcode-ls/internal/position"
)

// commandHoverTemplate renders a command's Markdown hover: a heading,
// then a short prose line, with the long
// description appended only when the server is configured for it.
var commandHoverTemplate = template.Must(template.New("commandHover").Parse(
	`# {{.Code}}
{{.Short}}
{{if .Long}}
{{.Long}}
{{end}}`))

var parameterHoverTemplate = template.Must(template.New("parameterHover").Parse(
	`**{{.Letter}}** ({{.Type}}){{if .Required}}, required{{end}}
{{.Description}}`))

// HoverResult is the protocol-independent payload for a hover query;
// lsp/methods/textDocument/hover adapts it into an LSP Hover response.
type HoverResult struct {
	Found   bool
	Content string
	Range   position.Range
}

// Hover answers SPEC_FULL.md §8's hover operation: locate the token at
// position, and describe it from the active flavor if it's a command or
// parameter. longDescriptions selects whether a command's long
// description is appended to its short one.
func (d *Document) Hover(fl flavor.Flavor, byteOffset int, longDescriptions bool) HoverResult {
	tok, ok := d.TokenAt(byteOffset)
	if !ok || tok.Kind == gtoken.Comment {
		return HoverResult{}
	}

	line := d.Lines[tok.Line]
	if !line.HasCmd {
		return HoverResult{}
	}

	if tok.Kind == gtoken.Command {
		def, ok := fl.Get(line.Command.Code)
		if !ok {
			return HoverResult{}
		}
		var buf bytes.Buffer
		longText := ""
		if longDescriptions {
			longText = def.DescriptionLong
		}
		_ = commandHoverTemplate.Execute(&buf, struct {
			Code, Short, Long string
		}{line.Command.Code, def.DescriptionShort, longText})
		return HoverResult{Found: true, Content: buf.String(), Range: tok.Range}
	}

	// Parameter token: find which Parameter this is by range match.
	for _, p := range line.Command.Parameters {
		if p.Range != tok.Range {
			continue
		}
		def, ok := fl.Get(line.Command.Code)
		if !ok {
			return HoverResult{}
		}
		pd, ok := def.ParamDef(p.Letter)
		if !ok {
			return HoverResult{}
		}
		var buf bytes.Buffer
		_ = parameterHoverTemplate.Execute(&buf, struct {
			Letter, Type, Description string
			Required                  bool
		}{pd.Name, pd.Type.String(), pd.Description, pd.Required})
		return HoverResult{Found: true, Content: buf.String(), Range: tok.Range}
	}
	return HoverResult{}
}

// CompletionItem is the protocol-independent payload for one completion
// suggestion.
type CompletionItem struct {
	Label      string
	InsertText string
	Detail     string
}

// Completion answers SPEC_FULL.md §8's completion operation: at the
// start of a line (or after whitespace with no command yet), offer every
// command name; otherwise, once a command is established on the line,
// offer its declared parameter letters with a templated insertion snippet.
func (d *Document) Completion(fl flavor.Flavor, line uint32, byteCol int) []CompletionItem {
	if int(line) >= len(d.Lines) {
		return nil
	}
	l := d.Lines[line]

	if !l.HasCmd || byteCol <= l.Command.Token.ByteStart-l.ByteStart {
		return commandNameCompletions(fl)
	}

	def, ok := fl.Get(l.Command.Code)
	if !ok {
		return nil
	}
	items := make([]CompletionItem, 0, len(def.Parameters))
	for _, pd := range def.Parameters {
		items = append(items, CompletionItem{
			Label:      pd.Name,
			InsertText: fmt.Sprintf("%s${%s}", pd.Name, strings.ToLower(pd.Type.String())),
			Detail:     pd.Description,
		})
	}
	return items
}

func commandNameCompletions(fl flavor.Flavor) []CompletionItem {
	items := make([]CompletionItem, 0, len(fl.Commands))
	for code, def := range fl.Commands {
		items = append(items, CompletionItem{
			Label:      code,
			InsertText: code,
			Detail:     def.DescriptionShort,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}

// SymbolKind is a protocol-independent classification for document_symbols,
// mapped to LSP's SymbolKind enum by the
// lsp/methods/textDocument/documentSymbol package.
type SymbolKind uint8

const (
	SymbolGeneric SymbolKind = iota
	SymbolMovement
	SymbolTemperature
	SymbolFan
	SymbolHoming
)

// commandKinds maps command codes to a SymbolKind; codes absent from this
// table fall back to SymbolGeneric, matching "unknown commands map to a
// generic kind" in SPEC_FULL.md §8.
var commandKinds = map[string]SymbolKind{
	"G0":    SymbolMovement,
	"G1":    SymbolMovement,
	"G2":    SymbolMovement,
	"G3":    SymbolMovement,
	"G28":   SymbolHoming,
	"M104":  SymbolTemperature,
	"M109":  SymbolTemperature,
	"M106":  SymbolFan,
	"M107":  SymbolFan,
}

// movementLetters are the "key params" SPEC_FULL.md §8 calls out for a
// symbol's display name.
var movementLetters = []string{"X", "Y", "Z", "E", "S"}

// Symbol is one document_symbols entry.
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Range position.Range
}

// Symbols returns one Symbol per command occurrence in the document.
func (d *Document) Symbols(fl flavor.Flavor) []Symbol {
	var out []Symbol
	for _, line := range d.Lines {
		if !line.HasCmd {
			continue
		}
		cmd := line.Command

		var keyParams []string
		for _, letter := range movementLetters {
			if cmd.Has(letter) {
				keyParams = append(keyParams, letter)
			}
		}

		short := ""
		if def, ok := fl.Get(cmd.Code); ok {
			short = def.DescriptionShort
		}

		name := cmd.Code
		if len(keyParams) > 0 {
			name = fmt.Sprintf("%s %s", cmd.Code, strings.Join(keyParams, " "))
		}
		if short != "" {
			name = fmt.Sprintf("%s (%s)", name, short)
		}

		kind, ok := commandKinds[cmd.Code]
		if !ok {
			kind = SymbolGeneric
		}

		out = append(out, Symbol{Name: name, Kind: kind, Range: cmd.Range})
	}
	return out
}

// Package documentSymbol implements the textDocument/documentSymbol
// request, grounded on lsp/methods/textDocument/hover/hover.go from the
// teacher for the adapter shape: it maps gdoc.Document.Symbols' protocol-
// independent results onto LSP DocumentSymbol values.
package documentSymbol

import (
	"github.com/gcode-lsp/gcode-ls/internal/gdoc"
	"github.com/gcode-lsp/gcode-ls/internal/log"
	"github.com/gcode-lsp/gcode-ls/internal/position"
	"github.com/gcode-lsp/gcode-ls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// symbolKinds maps gdoc's protocol-independent SymbolKind to LSP's
// SymbolKind enum. Movement and homing commands read naturally as
// "Event" symbols (a discrete occurrence along the timeline of the
// document), temperature and fan commands as "Property" (a named setting
// being changed); anything unclassified falls back to "Function".
var symbolKinds = map[gdoc.SymbolKind]protocol.SymbolKind{
	gdoc.SymbolMovement:    protocol.SymbolKindEvent,
	gdoc.SymbolHoming:      protocol.SymbolKindEvent,
	gdoc.SymbolTemperature: protocol.SymbolKindProperty,
	gdoc.SymbolFan:         protocol.SymbolKindProperty,
	gdoc.SymbolGeneric:     protocol.SymbolKindFunction,
}

// DocumentSymbol handles the textDocument/documentSymbol request.
func DocumentSymbol(req *types.RequestContext, params *protocol.DocumentSymbolParams) (any, error) {
	uri := params.TextDocument.URI
	doc := req.Server.Document(uri)
	if doc == nil {
		return nil, nil
	}

	fl, ok := req.Server.Registry().Get(doc.Flavor.Name)
	if !ok {
		return nil, nil
	}

	symbols := doc.Symbols(fl)
	log.Debug("documentSymbol for %s returned %d symbols", uri, len(symbols))

	out := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, sym := range symbols {
		kind, ok := symbolKinds[sym.Kind]
		if !ok {
			kind = protocol.SymbolKindFunction
		}
		r := toProtocolRange(sym.Range)
		out = append(out, protocol.DocumentSymbol{
			Name:           sym.Name,
			Kind:           kind,
			Range:          r,
			SelectionRange: r,
		})
	}
	return out, nil
}

func toProtocolRange(r position.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: r.Start.Line, Character: r.Start.Character},
		End:   protocol.Position{Line: r.End.Line, Character: r.End.Character},
	}
}

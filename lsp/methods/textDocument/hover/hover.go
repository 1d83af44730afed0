// Package hover adapts gdoc.Document.Hover to the LSP textDocument/hover
// response shape, grounded on lsp/methods/textDocument/hover/hover.go from
// the teacher.
package hover

import (
	"github.com/gcode-lsp/gcode-ls/internal/log"
	"github.com/gcode-lsp/gcode-ls/internal/position"
	"github.com/gcode-lsp/gcode-ls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Hover handles the textDocument/hover request.
func Hover(req *types.RequestContext, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := params.TextDocument.URI
	doc := req.Server.Document(uri)
	if doc == nil {
		return nil, nil
	}

	fl, ok := req.Server.Registry().Get(doc.Flavor.Name)
	if !ok {
		return nil, nil
	}

	pos := position.Position{Line: params.Position.Line, Character: params.Position.Character}
	byteOffset, ok := doc.ByteOffsetAt(pos)
	if !ok {
		return nil, nil
	}

	result := doc.Hover(fl, byteOffset, req.Server.Config().LongDescriptions)
	if !result.Found {
		return nil, nil
	}

	log.Debug("hover found at %s:%d:%d", uri, params.Position.Line, params.Position.Character)

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: result.Content,
		},
		Range: toProtocolRange(result.Range),
	}, nil
}

func toProtocolRange(r position.Range) *protocol.Range {
	return &protocol.Range{
		Start: protocol.Position{Line: r.Start.Line, Character: r.Start.Character},
		End:   protocol.Position{Line: r.End.Line, Character: r.End.Character},
	}
}

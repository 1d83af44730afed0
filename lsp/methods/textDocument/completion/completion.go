// Package completion implements the textDocument/completion request,
// grounded on lsp/methods/textDocument/completion/completion.go from the
// teacher: it adapts gdoc.Document.Completion's protocol-independent items
// into LSP CompletionItem values.
package completion

import (
	"github.com/gcode-lsp/gcode-ls/internal/log"
	"github.com/gcode-lsp/gcode-ls/internal/position"
	"github.com/gcode-lsp/gcode-ls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Completion handles the textDocument/completion request.
func Completion(req *types.RequestContext, params *protocol.CompletionParams) (any, error) {
	uri := params.TextDocument.URI
	doc := req.Server.Document(uri)
	if doc == nil {
		return nil, nil
	}

	fl, ok := req.Server.Registry().Get(doc.Flavor.Name)
	if !ok {
		return nil, nil
	}

	line := params.Position.Line
	text := ""
	if int(line) < len(doc.Lines) {
		text = doc.Lines[line].Text
	}
	byteCol := position.UTF16ToByteOffset(text, int(params.Position.Character))

	results := doc.Completion(fl, line, byteCol)
	log.Debug("completion at %s:%d:%d returned %d items", uri, line, params.Position.Character, len(results))

	items := make([]protocol.CompletionItem, 0, len(results))
	for _, r := range results {
		format := protocol.InsertTextFormatSnippet
		kind := protocol.CompletionItemKindFunction
		detail := r.Detail
		insertText := r.InsertText
		items = append(items, protocol.CompletionItem{
			Label:            r.Label,
			Kind:             &kind,
			Detail:           &detail,
			InsertText:       &insertText,
			InsertTextFormat: &format,
		})
	}

	return &protocol.CompletionList{IsIncomplete: false, Items: items}, nil
}

package server

import (
	"encoding/json"
	"strings"

	"github.com/jasmin-lang/jasmin-lsp/internal/analysis"
	"github.com/jasmin-lang/jasmin-lsp/internal/eventqueue"
	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
)

var symbolKindMap = map[analysis.Kind]protocol.SymbolKind{
	analysis.Function:  protocol.SKFunction,
	analysis.Variable:  protocol.SKVariable,
	analysis.Parameter: protocol.SKVariable,
	analysis.Constant:  protocol.SKConstant,
	analysis.Type:      protocol.SKStruct,
}

func toSymbolInformation(sym analysis.Symbol) protocol.SymbolInformation {
	kind, ok := symbolKindMap[sym.Kind]
	if !ok {
		kind = protocol.SKVariable
	}
	return protocol.SymbolInformation{
		Name: sym.Name,
		Kind: kind,
		Location: protocol.Location{
			URI:   sym.URI,
			Range: toProtocolRange(sym.SelectionRange),
		},
	}
}

// handleDocumentSymbol implements spec.md §4.10's
// textDocument/documentSymbol: every extracted symbol for one URI, as
// a hierarchy-flat list.
func handleDocumentSymbol(st *ServerState, params json.RawMessage) (interface{}, []eventqueue.Event, error) {
	var p protocol.DocumentSymbolParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, nil, err
	}
	tree, ok := st.Store.Tree(p.TextDocument.URI)
	if !ok || tree == nil {
		return []protocol.SymbolInformation{}, nil, nil
	}
	text, _ := st.Store.Text(p.TextDocument.URI)
	symbols := analysis.ExtractSymbols(p.TextDocument.URI, tree.RootNode(), []byte(text))

	result := make([]protocol.SymbolInformation, 0, len(symbols))
	for _, sym := range symbols {
		result = append(result, toSymbolInformation(sym))
	}
	return result, nil, nil
}

// handleWorkspaceSymbol implements spec.md §4.10's workspace/symbol:
// union of symbols across all open URIs, filtered by case-insensitive
// substring of name; an empty query returns everything.
func handleWorkspaceSymbol(st *ServerState, params json.RawMessage) (interface{}, []eventqueue.Event, error) {
	var p protocol.WorkspaceSymbolParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, nil, err
	}
	query := strings.ToLower(p.Query)

	var result []protocol.SymbolInformation
	for _, uri := range st.Store.AllURIs() {
		tree, ok := st.Store.Tree(uri)
		if !ok || tree == nil {
			continue
		}
		text, _ := st.Store.Text(uri)
		for _, sym := range analysis.ExtractSymbols(uri, tree.RootNode(), []byte(text)) {
			if query != "" && !strings.Contains(strings.ToLower(sym.Name), query) {
				continue
			}
			result = append(result, toSymbolInformation(sym))
		}
	}
	if result == nil {
		result = []protocol.SymbolInformation{}
	}
	return result, nil, nil
}

package server

import (
	"encoding/json"
	"fmt"

	"github.com/jasmin-lang/jasmin-lsp/internal/analysis"
	"github.com/jasmin-lang/jasmin-lsp/internal/cst"
	"github.com/jasmin-lang/jasmin-lsp/internal/eventqueue"
	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
	"github.com/jasmin-lang/jasmin-lsp/internal/resolve"
)

// handleDefinition implements spec.md §4.10's textDocument/definition
// contract in its three steps: require-string special case, then
// scope-aware same-file lookup, then closure-wide lookup, then error.
func handleDefinition(st *ServerState, params json.RawMessage) (interface{}, []eventqueue.Event, error) {
	var p protocol.TextDocumentPositionParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, nil, err
	}

	tree, ok := st.Store.Tree(p.TextDocument.URI)
	if !ok || tree == nil {
		return nil, nil, fmt.Errorf("No definition found")
	}
	text, _ := st.Store.Text(p.TextDocument.URI)
	source := []byte(text)
	root := tree.RootNode()
	point := toPoint(p.Position)

	node := cst.NodeAtPoint(root, point)
	if namespace, filename, ok := resolve.StringLiteralRequireTarget(node, source); ok {
		dir, err := resolve.DirOfURI(p.TextDocument.URI)
		if err != nil {
			return nil, nil, fmt.Errorf("No definition found")
		}
		target := st.Resolver.Resolve(dir, namespace, filename)
		if target == "" {
			return nil, nil, fmt.Errorf("No definition found")
		}
		return fileStartLocation(resolve.URIFromPath(target)), nil, nil
	}

	ident := analysis.FindIdentifierAtPoint(root, point)
	if ident == nil {
		return nil, nil, fmt.Errorf("No definition found")
	}
	name := ident.Text(source)

	symbols := analysis.ExtractSymbols(p.TextDocument.URI, root, source)
	if sym := analysis.FindDefinitionAtPosition(symbols, name, point); sym != nil {
		return protocol.Location{URI: sym.URI, Range: toProtocolRange(sym.SelectionRange)}, nil, nil
	}

	relevant, reqSource := st.relevantFiles(p.TextDocument.URI)
	defer reqSource.Scratch.Drop()
	for uri := range relevant {
		if uri == p.TextDocument.URI {
			continue
		}
		otherTree, otherText, ok := reqSource.TreeAndText(uri)
		if !ok || otherTree == nil {
			continue
		}
		otherSymbols := analysis.ExtractSymbols(uri, otherTree.RootNode(), []byte(otherText))
		for _, sym := range otherSymbols {
			if sym.Name == name {
				return protocol.Location{URI: sym.URI, Range: toProtocolRange(sym.SelectionRange)}, nil, nil
			}
		}
	}

	return nil, nil, fmt.Errorf("No definition found")
}

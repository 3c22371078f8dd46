package server

import (
	"encoding/json"
	"fmt"

	"github.com/jasmin-lang/jasmin-lsp/internal/analysis"
	"github.com/jasmin-lang/jasmin-lsp/internal/cst"
	"github.com/jasmin-lang/jasmin-lsp/internal/eventqueue"
	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
)

// handleReferences implements spec.md §4.10's textDocument/references:
// identifier at point, union of extract_references over
// all_relevant_files(uri), deduplicated by (URI, range).
func handleReferences(st *ServerState, params json.RawMessage) (interface{}, []eventqueue.Event, error) {
	var p protocol.ReferenceParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, nil, err
	}

	tree, ok := st.Store.Tree(p.TextDocument.URI)
	if !ok || tree == nil {
		return nil, nil, fmt.Errorf("No references found")
	}
	text, _ := st.Store.Text(p.TextDocument.URI)
	root := tree.RootNode()
	point := toPoint(p.Position)

	ident := analysis.FindIdentifierAtPoint(root, point)
	if ident == nil {
		return nil, nil, fmt.Errorf("No references found")
	}
	name := ident.Text([]byte(text))

	relevant, source := st.relevantFiles(p.TextDocument.URI)
	defer source.Scratch.Drop()

	var declRanges []cst.PointRange
	if !p.Context.IncludeDeclaration {
		for uri := range relevant {
			t, txt, ok := source.TreeAndText(uri)
			if !ok || t == nil {
				continue
			}
			for _, sym := range analysis.ExtractSymbols(uri, t.RootNode(), []byte(txt)) {
				if sym.Name == name {
					declRanges = append(declRanges, sym.SelectionRange)
				}
			}
		}
	}

	type key struct {
		uri protocol.DocumentURI
		r   protocol.Range
	}
	seen := map[key]bool{}
	var locations []protocol.Location
	for uri := range relevant {
		t, txt, ok := source.TreeAndText(uri)
		if !ok || t == nil {
			continue
		}
		for _, ref := range analysis.ExtractReferences(uri, t.RootNode(), []byte(txt)) {
			if ref.Name != name {
				continue
			}
			if !p.Context.IncludeDeclaration && isDeclRange(ref.Range, declRanges) {
				continue
			}
			k := key{uri: uri, r: toProtocolRange(ref.Range)}
			if seen[k] {
				continue
			}
			seen[k] = true
			locations = append(locations, protocol.Location{URI: uri, Range: k.r})
		}
	}
	return locations, nil, nil
}

func isDeclRange(r cst.PointRange, decls []cst.PointRange) bool {
	for _, d := range decls {
		if r == d {
			return true
		}
	}
	return false
}

package server

import (
	"encoding/json"
	"fmt"

	"github.com/jasmin-lang/jasmin-lsp/internal/analysis"
	"github.com/jasmin-lang/jasmin-lsp/internal/eventqueue"
	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
)

// handleRename implements spec.md §4.10's textDocument/rename:
// same-file references only (cross-file rename is explicitly an
// implementation option the spec does not require).
func handleRename(st *ServerState, params json.RawMessage) (interface{}, []eventqueue.Event, error) {
	var p protocol.RenameParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, nil, err
	}

	tree, ok := st.Store.Tree(p.TextDocument.URI)
	if !ok || tree == nil {
		return nil, nil, fmt.Errorf("cannot rename: document has no parse tree")
	}
	text, _ := st.Store.Text(p.TextDocument.URI)
	source := []byte(text)
	root := tree.RootNode()
	point := toPoint(p.Position)

	ident := analysis.FindIdentifierAtPoint(root, point)
	if ident == nil {
		return nil, nil, fmt.Errorf("no identifier at position")
	}
	name := ident.Text(source)

	var edits []protocol.TextEdit
	for _, ref := range analysis.ExtractReferences(p.TextDocument.URI, root, source) {
		if ref.Name != name {
			continue
		}
		edits = append(edits, protocol.TextEdit{Range: toProtocolRange(ref.Range), NewText: p.NewName})
	}
	if len(edits) == 0 {
		return nil, nil, fmt.Errorf("no references to rename")
	}

	return protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentURI][]protocol.TextEdit{
			p.TextDocument.URI: edits,
		},
	}, nil, nil
}

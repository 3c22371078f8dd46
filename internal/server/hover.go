package server

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jasmin-lang/jasmin-lsp/internal/analysis"
	"github.com/jasmin-lang/jasmin-lsp/internal/cst"
	"github.com/jasmin-lang/jasmin-lsp/internal/eventqueue"
	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
)

// handleHover implements spec.md §4.10's textDocument/hover contract:
// keyword lookup first (the closed Glossary set), then a closure-wide
// symbol lookup with fixpoint-evaluated constant values.
func handleHover(st *ServerState, params json.RawMessage) (interface{}, []eventqueue.Event, error) {
	var p protocol.TextDocumentPositionParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, nil, err
	}

	tree, ok := st.Store.Tree(p.TextDocument.URI)
	if !ok || tree == nil {
		return nil, nil, nil
	}
	text, _ := st.Store.Text(p.TextDocument.URI)
	source := []byte(text)
	root := tree.RootNode()
	point := toPoint(p.Position)

	node := cst.NodeAtPoint(root, point)
	if node != nil {
		if doc, ok := keywordDocs[strings.TrimSpace(node.Text(source))]; ok {
			return &protocol.Hover{Contents: protocol.MarkupContent{Kind: protocol.Markdown, Value: doc}}, nil, nil
		}
	}

	ident := analysis.FindIdentifierAtPoint(root, point)
	if ident == nil {
		return nil, nil, nil
	}
	name := ident.Text(source)

	relevant, reqSource := st.relevantFiles(p.TextDocument.URI)
	defer reqSource.Scratch.Drop()

	var pending []analysis.PendingConstant
	var found *analysis.Symbol
	for uri := range relevant {
		t, txt, ok := reqSource.TreeAndText(uri)
		if !ok || t == nil {
			continue
		}
		fileSource := []byte(txt)
		pending = append(pending, analysis.CollectPendingConstants(t.RootNode(), fileSource)...)
		if found == nil {
			for _, sym := range analysis.ExtractSymbols(uri, t.RootNode(), fileSource) {
				if sym.Name == name {
					s := sym
					found = &s
					break
				}
			}
		}
	}
	if found == nil {
		return nil, nil, nil
	}

	env := analysis.Fixpoint(pending)
	return &protocol.Hover{Contents: protocol.MarkupContent{Kind: protocol.Markdown, Value: formatHover(found, env)}}, nil, nil
}

func formatHover(sym *analysis.Symbol, env analysis.Env) string {
	var b strings.Builder
	switch sym.Kind {
	case analysis.Function:
		b.WriteString("```jasmin\n")
		b.WriteString(sym.Detail)
		b.WriteString("\n```")
	case analysis.Constant:
		fmt.Fprintf(&b, "param %s: %s", sym.Name, sym.Detail)
		if computed, ok := env[sym.Name]; ok {
			declared := strings.TrimSpace(afterEquals(sym.Detail))
			if fmt.Sprintf("%d", computed) != declared {
				fmt.Fprintf(&b, "\n\n<details><summary>Computed</summary>\n\n%d\n\n</details>", computed)
			}
		}
	default:
		fmt.Fprintf(&b, "%s: %s", sym.Name, sym.Detail)
	}
	if sym.Doc != "" {
		b.WriteString("\n\n---\n\n")
		b.WriteString(sym.Doc)
	}
	return b.String()
}

func afterEquals(detail string) string {
	if idx := strings.IndexByte(detail, '='); idx >= 0 {
		return detail[idx+1:]
	}
	return ""
}

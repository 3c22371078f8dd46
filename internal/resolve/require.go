package resolve

import (
	"strings"

	"github.com/jasmin-lang/jasmin-lsp/internal/cst"
	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
)

// Grammar node/field names the require-directive extraction depends
// on. These names are not given literally in the language's grammar
// documentation, so they are fixed here as the one contract this
// package and the real jasmin grammar must agree on (see
// internal/parser/grammar.go for the grammar-linking seam itself).
const (
	nodeRequire       = "require"
	nodeFrom          = "from"
	nodeStringLiteral = "string_literal"
	fieldID           = "id"
)

// RequireDirective is one `require "file"` or `from NS require "file"`
// statement found in a CST, before path resolution.
type RequireDirective struct {
	Namespace string // empty when there was no `from` clause
	Filename  string // quotes stripped
	Node      cst.Node
}

// ExtractRequires walks root for every require directive, per spec.md
// §4.4: "a require node carries one or more string-literal children
// (filenames) and optionally a sibling from node whose id field names
// a namespace."
func ExtractRequires(root cst.Node, source []byte) []RequireDirective {
	var directives []RequireDirective
	cst.Walk(root, func(n cst.Node) bool {
		if n.Type() != nodeRequire {
			return true
		}
		namespace := namespaceOf(n, source)
		for i := 0; i < n.ChildCount(); i++ {
			c := n.Child(i)
			if c == nil || c.Type() != nodeStringLiteral {
				continue
			}
			filename := unquote(c.Text(source))
			if filename == "" {
				continue
			}
			directives = append(directives, RequireDirective{
				Namespace: namespace,
				Filename:  filename,
				Node:      n,
			})
		}
		return true
	}, nil)
	return directives
}

// StringLiteralRequireTarget reports whether n is a string-literal
// child of a require node (as opposed to any other string literal in
// the file) and, if so, the (namespace, filename) it names. Used by
// textDocument/definition to special-case clicking inside a require
// directive's filename, per spec.md §4.10.
func StringLiteralRequireTarget(n cst.Node, source []byte) (namespace, filename string, ok bool) {
	if n == nil || n.Type() != nodeStringLiteral {
		return "", "", false
	}
	parent := n.Parent()
	if parent == nil || parent.Type() != nodeRequire {
		return "", "", false
	}
	return namespaceOf(parent, source), unquote(n.Text(source)), true
}

// namespaceOf finds the `from` node immediately preceding n among its
// parent's children, and returns the text of that node's `id` field.
func namespaceOf(n cst.Node, source []byte) string {
	parent := n.Parent()
	if parent == nil {
		return ""
	}
	target := n.Bytes()
	index := -1
	for i := 0; i < parent.ChildCount(); i++ {
		c := parent.Child(i)
		if c == nil {
			continue
		}
		if c.Bytes() == target {
			index = i
			break
		}
	}
	if index < 0 {
		return ""
	}
	for i := index - 1; i >= 0; i-- {
		sibling := parent.Child(i)
		if sibling == nil {
			continue
		}
		if sibling.Type() != nodeFrom {
			return ""
		}
		if id := sibling.Field(fieldID); id != nil {
			return id.Text(source)
		}
		return ""
	}
	return ""
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Package parser adapts github.com/smacker/go-tree-sitter onto this
// module's internal/cst interfaces. This is the spec's "Parser Adapter"
// (spec.md §4.4): a thin wrapper, not a grammar implementation — see
// grammar.go for how (and why) the actual jasmin grammar is linked in
// separately from this package.
package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jasmin-lang/jasmin-lsp/internal/cst"
)

// SitterParser implements cst.Parser over a single shared *sitter.Parser.
// Like the library itself, it is not safe for concurrent use; the server
// loop that owns it is single-threaded (spec.md §5).
type SitterParser struct {
	raw *sitter.Parser
}

// New constructs a SitterParser for the given language. lang is nil only
// when no jasmin grammar has been linked in (see grammar.go); Parse will
// then fail fast with a descriptive error rather than panicking inside
// the C binding.
func New(lang *sitter.Language) *SitterParser {
	p := sitter.NewParser()
	if lang != nil {
		p.SetLanguage(lang)
	}
	return &SitterParser{raw: p}
}

// Parse implements cst.Parser.
func (p *SitterParser) Parse(source []byte) (cst.Tree, error) {
	tree, err := p.raw.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if tree == nil {
		return nil, fmt.Errorf("parse: no grammar linked")
	}
	return &sitterTree{tree: tree}, nil
}

type sitterTree struct {
	tree *sitter.Tree
}

func (t *sitterTree) RootNode() cst.Node {
	root := t.tree.RootNode()
	if root == nil {
		return nil
	}
	return &sitterNode{n: root}
}

func (t *sitterTree) Drop() {
	t.tree.Close()
}

// sitterNode adapts *sitter.Node to cst.Node. It is a borrowed view and
// must not outlive the sitterTree it came from.
type sitterNode struct {
	n *sitter.Node
}

func wrap(n *sitter.Node) cst.Node {
	if n == nil {
		return nil
	}
	return &sitterNode{n: n}
}

func (n *sitterNode) Type() string    { return n.n.Type() }
func (n *sitterNode) IsError() bool   { return n.n.IsError() || n.n.Type() == "ERROR" }
func (n *sitterNode) IsMissing() bool { return n.n.IsMissing() }
func (n *sitterNode) IsNamed() bool   { return n.n.IsNamed() }

func (n *sitterNode) Bytes() cst.ByteRange {
	return cst.ByteRange{Start: n.n.StartByte(), End: n.n.EndByte()}
}

func (n *sitterNode) Points() cst.PointRange {
	s := n.n.StartPoint()
	e := n.n.EndPoint()
	return cst.PointRange{
		Start: cst.Point{Row: int(s.Row), Column: int(s.Column)},
		End:   cst.Point{Row: int(e.Row), Column: int(e.Column)},
	}
}

func (n *sitterNode) Text(source []byte) string { return n.n.Content(source) }

func (n *sitterNode) ChildCount() int            { return int(n.n.ChildCount()) }
func (n *sitterNode) Child(i int) cst.Node       { return wrap(n.n.Child(i)) }
func (n *sitterNode) NamedChildCount() int       { return int(n.n.NamedChildCount()) }
func (n *sitterNode) NamedChild(i int) cst.Node  { return wrap(n.n.NamedChild(i)) }
func (n *sitterNode) Field(name string) cst.Node { return wrap(n.n.ChildByFieldName(name)) }
func (n *sitterNode) Parent() cst.Node           { return wrap(n.n.Parent()) }

package resolve

import "github.com/jasmin-lang/jasmin-lsp/internal/cst"

// fakeNode is a minimal hand-built cst.Node used to exercise require
// extraction without a real tree-sitter grammar, per internal/cst's
// interface boundary.
type fakeNode struct {
	typ      string
	start    uint32
	end      uint32
	children []*fakeNode
	fields   map[string]*fakeNode
	parent   *fakeNode
	text     string
}

func newFakeNode(typ string, start, end uint32) *fakeNode {
	return &fakeNode{typ: typ, start: start, end: end, fields: map[string]*fakeNode{}}
}

func (n *fakeNode) addChild(c *fakeNode) *fakeNode {
	c.parent = n
	n.children = append(n.children, c)
	return n
}

func (n *fakeNode) withField(name string, c *fakeNode) *fakeNode {
	c.parent = n
	n.fields[name] = c
	return n
}

func (n *fakeNode) Type() string     { return n.typ }
func (n *fakeNode) IsError() bool    { return n.typ == "ERROR" }
func (n *fakeNode) IsMissing() bool  { return false }
func (n *fakeNode) IsNamed() bool    { return true }
func (n *fakeNode) Bytes() cst.ByteRange {
	return cst.ByteRange{Start: n.start, End: n.end}
}
func (n *fakeNode) Points() cst.PointRange { return cst.PointRange{} }
func (n *fakeNode) Text(source []byte) string {
	if n.text != "" {
		return n.text
	}
	if int(n.end) <= len(source) {
		return string(source[n.start:n.end])
	}
	return ""
}
func (n *fakeNode) ChildCount() int { return len(n.children) }
func (n *fakeNode) Child(i int) cst.Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}
func (n *fakeNode) NamedChildCount() int        { return len(n.children) }
func (n *fakeNode) NamedChild(i int) cst.Node   { return n.Child(i) }
func (n *fakeNode) Field(name string) cst.Node {
	f, ok := n.fields[name]
	if !ok {
		return nil
	}
	return f
}
func (n *fakeNode) Parent() cst.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

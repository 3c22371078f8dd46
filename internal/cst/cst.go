// Package cst defines the narrow view of a concrete syntax tree that the
// rest of this module programs against. The actual incremental parser
// (tree-sitter, or any other CST library) lives behind the Parser
// interface; nothing outside internal/parser knows or cares which one
// is linked in.
package cst

// Point is a zero-indexed (row, column) position, matching LSP's Position
// shape but kept separate so this package has no dependency on the wire
// protocol.
type Point struct {
	Row    int
	Column int
}

// Before reports whether p comes strictly before o in document order.
func (p Point) Before(o Point) bool {
	return p.Row < o.Row || (p.Row == o.Row && p.Column < o.Column)
}

// ByteRange is a half-open [Start, End) byte offset range into the source.
type ByteRange struct {
	Start, End uint32
}

// PointRange is the (start, end) pair of Points spanning a Node.
type PointRange struct {
	Start, End Point
}

// Contains reports whether p falls within [r.Start, r.End).
// A zero-width range never contains a point.
func (r PointRange) Contains(p Point) bool {
	return !p.Before(r.Start) && p.Before(r.End)
}

// Node is a borrowed view into a Tree. It must not be retained past the
// lifetime of the Tree (or, for on-demand loaded files, past the
// request-scoped SourceMap) that produced it.
type Node interface {
	Type() string
	IsError() bool
	IsMissing() bool
	IsNamed() bool

	Bytes() ByteRange
	Points() PointRange

	// Text returns the node's verbatim source text, given the same
	// source bytes the tree was parsed from.
	Text(source []byte) string

	ChildCount() int
	Child(i int) Node
	NamedChildCount() int
	NamedChild(i int) Node
	// Field returns the child bound to the given grammar field name, or
	// nil if the node has no such field.
	Field(name string) Node
	Parent() Node
}

// Tree is an owned parse tree. Drop releases any resources held by the
// underlying parser library; it is always safe to call more than once.
type Tree interface {
	RootNode() Node
	Drop()
}

// Parser parses one source buffer at a time. Implementations are assumed
// not to be safe for concurrent use, matching spec: the server loop is
// single-threaded so a single shared instance suffices.
type Parser interface {
	Parse(source []byte) (Tree, error)
}

// NodeAtPoint descends into the smallest node (by nesting depth) whose
// range contains p, starting from root. It always returns a node (root
// itself, at worst).
func NodeAtPoint(root Node, p Point) Node {
	cur := root
	for {
		found := false
		for i := 0; i < cur.ChildCount(); i++ {
			c := cur.Child(i)
			if c == nil {
				continue
			}
			if c.Points().Contains(p) {
				cur = c
				found = true
				break
			}
		}
		if !found {
			return cur
		}
	}
}

// Walk visits root and every descendant in pre-order, using ALL children
// (not just named ones) so anonymous ERROR/MISSING nodes are not skipped.
// visit returning false prunes that subtree; a panicking visit at one
// node is recovered and logged by the caller-supplied onPanic, and the
// walk continues with that node's siblings.
func Walk(root Node, visit func(Node) bool, onPanic func(Node, any)) {
	var walk func(Node)
	walk = func(n Node) {
		cont := func() (c bool) {
			defer func() {
				if r := recover(); r != nil {
					if onPanic != nil {
						onPanic(n, r)
					}
					c = false
				}
			}()
			return visit(n)
		}()
		if !cont {
			return
		}
		for i := 0; i < n.ChildCount(); i++ {
			if c := n.Child(i); c != nil {
				walk(c)
			}
		}
	}
	walk(root)
}

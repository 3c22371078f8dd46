package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jasmin-lang/jasmin-lsp/internal/cst"
	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
)

// fakeParser and fakeTree let docstore be exercised without a real
// tree-sitter grammar, per internal/cst's interface boundary.
type fakeParser struct{ fail bool }

func (p *fakeParser) Parse(source []byte) (cst.Tree, error) {
	if p.fail {
		return nil, assertError{}
	}
	return &fakeTree{}, nil
}

type assertError struct{}

func (assertError) Error() string { return "parse failed" }

type fakeTree struct{ dropped bool }

func (t *fakeTree) RootNode() cst.Node { return nil }
func (t *fakeTree) Drop()              { t.dropped = true }

func TestOpenThenGet(t *testing.T) {
	s := New(&fakeParser{})
	uri := protocol.DocumentURI("file:///a.jazz")
	s.Open(uri, "fn f() {}", 1)

	doc := s.Get(uri)
	assert.NotNil(t, doc)
	assert.Equal(t, "fn f() {}", doc.Text)
	assert.Equal(t, 1, doc.Version)
	assert.NotNil(t, doc.Tree)
	assert.True(t, s.IsOpen(uri))
}

func TestUpdateReplacesAndDropsOldTree(t *testing.T) {
	s := New(&fakeParser{})
	uri := protocol.DocumentURI("file:///a.jazz")
	s.Open(uri, "v1", 1)
	oldTree := s.Get(uri).Tree.(*fakeTree)

	s.Update(uri, "v2", 2)
	assert.True(t, oldTree.dropped)

	text, ok := s.Text(uri)
	assert.True(t, ok)
	assert.Equal(t, "v2", text)
}

func TestUpdateOnUnopenedURIBehavesLikeOpen(t *testing.T) {
	s := New(&fakeParser{})
	uri := protocol.DocumentURI("file:///never-opened.jazz")
	s.Update(uri, "text", 1)
	assert.True(t, s.IsOpen(uri))
}

func TestCloseRemovesDocumentNotInClosure(t *testing.T) {
	s := New(&fakeParser{})
	uri := protocol.DocumentURI("file:///a.jazz")
	s.Open(uri, "text", 1)

	retained := s.Close(uri, func(protocol.DocumentURI) bool { return false })
	assert.False(t, retained)
	assert.False(t, s.IsOpen(uri))
}

func TestCloseRetainsDocumentInMasterClosure(t *testing.T) {
	s := New(&fakeParser{})
	uri := protocol.DocumentURI("file:///a.jazz")
	s.Open(uri, "text", 1)

	retained := s.Close(uri, func(protocol.DocumentURI) bool { return true })
	assert.True(t, retained)
	assert.True(t, s.IsOpen(uri))
}

func TestParseFailureStoresTextWithNilTree(t *testing.T) {
	s := New(&fakeParser{fail: true})
	uri := protocol.DocumentURI("file:///broken.jazz")
	s.Open(uri, "!!!", 1)

	doc := s.Get(uri)
	assert.NotNil(t, doc)
	assert.Equal(t, "!!!", doc.Text)
	assert.Nil(t, doc.Tree)
}

func TestAllURIs(t *testing.T) {
	s := New(&fakeParser{})
	s.Open("file:///a.jazz", "a", 1)
	s.Open("file:///b.jazz", "b", 1)

	uris := s.AllURIs()
	assert.Len(t, uris, 2)
}

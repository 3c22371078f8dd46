package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
)

// treeWithTwoReferences builds a tree with two standalone `variable`
// references to name, at rows 1 and 2, plus a declaration-bearing
// reg_declaration at row 0 (so ExtractSymbols finds a declaration to
// exclude when IncludeDeclaration is false).
func treeWithTwoReferences(name string) *fakeTree {
	root := newFakeNode("source_file", 0, 3)

	decl := newFakeNode("reg_declaration", 0, 0)
	declChild := newFakeNode("variable", 0, 0).withText(name)
	decl.addChild(declChild)
	root.addChild(decl)

	root.addChild(newFakeNode("variable", 1, 1).withText(name))
	root.addChild(newFakeNode("variable", 2, 2).withText(name))

	return &fakeTree{root: root}
}

func TestHandleReferencesIncludesDeclarationWhenRequested(t *testing.T) {
	st := NewServerState(&fakeParser{tree: treeWithTwoReferences("x")}, func(string) bool { return false })
	uri := protocol.DocumentURI("file:///a.jazz")
	st.Store.Open(uri, "x x x", 1)

	params, _ := json.Marshal(protocol.ReferenceParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 1, Character: 0},
		},
		Context: protocol.ReferenceContext{IncludeDeclaration: true},
	})
	result, extra, err := handleReferences(st, params)
	require.NoError(t, err)
	assert.Nil(t, extra)

	locations, ok := result.([]protocol.Location)
	require.True(t, ok)
	assert.Len(t, locations, 3)
}

func TestHandleReferencesExcludesDeclarationByDefault(t *testing.T) {
	st := NewServerState(&fakeParser{tree: treeWithTwoReferences("x")}, func(string) bool { return false })
	uri := protocol.DocumentURI("file:///a.jazz")
	st.Store.Open(uri, "x x x", 1)

	params, _ := json.Marshal(protocol.ReferenceParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 1, Character: 0},
		},
	})
	result, _, err := handleReferences(st, params)
	require.NoError(t, err)
	locations := result.([]protocol.Location)
	assert.Len(t, locations, 2)
}

func TestHandleReferencesErrorsWithoutIdentifierAtPoint(t *testing.T) {
	root := newFakeNode("source_file", 0, 1)
	root.addChild(newFakeNode("punctuation", 0, 0).withText(";"))
	st := NewServerState(&fakeParser{tree: &fakeTree{root: root}}, func(string) bool { return false })
	uri := protocol.DocumentURI("file:///a.jazz")
	st.Store.Open(uri, ";", 1)

	params, _ := json.Marshal(protocol.ReferenceParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		},
	})
	_, _, err := handleReferences(st, params)
	assert.Error(t, err)
}

package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasmin-lang/jasmin-lsp/internal/cst"
	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
)

// identifierRefNode builds a standalone `identifier` node referencing
// name, spanning exactly row.
func identifierRefNode(name string, row int) *fakeNode {
	return newFakeNode("identifier", row, row).withText(name)
}

func treeWithFunctionAndReference() (*fakeTree, string) {
	source := addSource + "\nadd"
	root := newFakeNode("source_file", 0, 3)
	root.addChild(functionNode("add", 0, 0, addSource))
	root.addChild(identifierRefNode("add", 1))
	return &fakeTree{root: root}, source
}

func TestHandleDefinitionFindsSameFileFunctionDeclaration(t *testing.T) {
	tree, source := treeWithFunctionAndReference()
	st := NewServerState(&fakeParser{tree: tree}, func(string) bool { return false })
	uri := protocol.DocumentURI("file:///a.jazz")
	st.Store.Open(uri, source, 1)

	params, _ := json.Marshal(protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Position:     protocol.Position{Line: 1, Character: 1},
	})
	result, extra, err := handleDefinition(st, params)
	require.NoError(t, err)
	assert.Nil(t, extra)

	loc, ok := result.(protocol.Location)
	require.True(t, ok)
	assert.Equal(t, uri, loc.URI)
}

func TestHandleDefinitionReturnsErrorForNoParseTree(t *testing.T) {
	st := newTestState()
	params, _ := json.Marshal(protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///missing.jazz"},
	})
	_, _, err := handleDefinition(st, params)
	assert.Error(t, err)
}

func TestHandleDefinitionResolvesRequireStringLiteral(t *testing.T) {
	root := newFakeNode("source_file", 0, 1)
	req := newFakeNode("require", 0, 0)
	str := newFakeNode("string_literal", 0, 0).withText(`"helper.jazz"`)
	req.addChild(str)
	root.addChild(req)

	st := NewServerState(&fakeParser{tree: &fakeTree{root: root}}, func(path string) bool { return true })
	uri := protocol.DocumentURI("file:///dir/a.jazz")
	st.Store.Open(uri, `require "helper.jazz"`, 1)

	params, _ := json.Marshal(protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Position:     protocol.Position{Line: 0, Character: 0},
	})
	_, _, err := handleDefinition(st, params)
	require.NoError(t, err)
}

func TestHandleDefinitionFallsBackToClosureWideLookup(t *testing.T) {
	// "add" is declared in other.jazz, referenced in a.jazz.
	otherRoot := newFakeNode("source_file", 0, 1)
	otherRoot.addChild(functionNode("add", 0, 0, addSource))
	mainRoot := newFakeNode("source_file", 0, 2)
	mainRoot.addChild(identifierRefNode("add", 0))

	st := NewServerState(&fakeParser{tree: &fakeTree{root: mainRoot}}, func(string) bool { return false })
	uri := protocol.DocumentURI("file:///a.jazz")
	otherURI := protocol.DocumentURI("file:///other.jazz")
	st.Store.Open(uri, "add", 1)
	// Manually register the second document via the store's Update path
	// with a distinct parser result by swapping the parser's tree.
	st.Parser.(*fakeParser).tree = &fakeTree{root: otherRoot}
	st.Store.Open(otherURI, addSource, 1)
	st.HasMaster = false

	params, _ := json.Marshal(protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Position:     protocol.Position{Line: 0, Character: 1},
	})
	result, _, err := handleDefinition(st, params)
	require.NoError(t, err)
	loc, ok := result.(protocol.Location)
	require.True(t, ok)
	assert.Equal(t, otherURI, loc.URI)
	_ = cst.Point{}
}

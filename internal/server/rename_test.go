package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
)

func TestHandleRenameProducesEditsForEveryReference(t *testing.T) {
	st := NewServerState(&fakeParser{tree: treeWithTwoReferences("x")}, func(string) bool { return false })
	uri := protocol.DocumentURI("file:///a.jazz")
	st.Store.Open(uri, "x x x", 1)

	params, _ := json.Marshal(protocol.RenameParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 1, Character: 0},
		},
		NewName: "y",
	})
	result, extra, err := handleRename(st, params)
	require.NoError(t, err)
	assert.Nil(t, extra)

	edit, ok := result.(protocol.WorkspaceEdit)
	require.True(t, ok)
	edits := edit.Changes[uri]
	assert.Len(t, edits, 3)
	for _, e := range edits {
		assert.Equal(t, "y", e.NewText)
	}
}

func TestHandleRenameErrorsWithoutParseTree(t *testing.T) {
	st := newTestState()
	params, _ := json.Marshal(protocol.RenameParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///missing.jazz"},
		},
	})
	_, _, err := handleRename(st, params)
	assert.Error(t, err)
}

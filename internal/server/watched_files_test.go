package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
)

func TestHandleDidChangeWatchedFilesDeletedPublishesEmptyDiagnostics(t *testing.T) {
	st := newTestState()
	params, _ := json.Marshal(protocol.DidChangeWatchedFilesParams{
		Changes: []protocol.FileEvent{{URI: "file:///gone.jazz", Type: protocol.FileDeleted}},
	})

	events, err := handleDidChangeWatchedFiles(st, params)
	require.NoError(t, err)
	require.Len(t, events, 1)

	var notif struct {
		Method string                             `json:"method"`
		Params protocol.PublishDiagnosticsParams `json:"params"`
	}
	require.NoError(t, json.Unmarshal(events[0].Payload.([]byte), &notif))
	assert.Equal(t, "textDocument/publishDiagnostics", notif.Method)
	assert.Equal(t, []protocol.Diagnostic{}, notif.Params.Diagnostics)
}

func TestHandleDidChangeWatchedFilesIgnoresUnopenedChangedFile(t *testing.T) {
	st := newTestState()
	params, _ := json.Marshal(protocol.DidChangeWatchedFilesParams{
		Changes: []protocol.FileEvent{{URI: "file:///not-open.jazz", Type: protocol.FileChanged}},
	})

	events, err := handleDidChangeWatchedFiles(st, params)
	require.NoError(t, err)
	// Not open and not on disk (fakeParser has no backing filesystem), so
	// the store never gains a document, but diagnostics still publish
	// (here: empty, since no tree exists for the URI).
	require.Len(t, events, 1)
}

package server

import (
	"encoding/json"
	"os"

	"github.com/jasmin-lang/jasmin-lsp/internal/eventqueue"
	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
	"github.com/jasmin-lang/jasmin-lsp/internal/resolve"
	"github.com/jasmin-lang/jasmin-lsp/internal/rpc"
)

// handleDidChangeWatchedFiles implements spec.md §4.10: Deleted files
// get an empty diagnostics publish; Created/Changed files that are
// open get re-read from disk with a bumped version; diagnostics are
// published either way.
func handleDidChangeWatchedFiles(st *ServerState, params json.RawMessage) ([]eventqueue.Event, error) {
	var p protocol.DidChangeWatchedFilesParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}

	var events []eventqueue.Event
	for _, change := range p.Changes {
		switch change.Type {
		case protocol.FileDeleted:
			if ev, ok := emptyDiagnosticsEvent(change.URI); ok {
				events = append(events, ev)
			}
		case protocol.FileCreated, protocol.FileChanged:
			if st.Store.IsOpen(change.URI) {
				if path, err := resolve.PathFromURI(change.URI); err == nil {
					if data, err := os.ReadFile(path); err == nil {
						doc := st.Store.Get(change.URI)
						version := 0
						if doc != nil {
							version = doc.Version + 1
						}
						st.Store.Update(change.URI, string(data), version)
					}
				}
			}
			if ev, ok := st.publishDiagnosticsFor(change.URI, nil); ok {
				events = append(events, ev)
			}
		}
	}
	return events, nil
}

func emptyDiagnosticsEvent(uri protocol.DocumentURI) (eventqueue.Event, bool) {
	body, err := rpc.EncodeNotification("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	if err != nil {
		return eventqueue.Event{}, false
	}
	return diagnosticsEvent(body), true
}

package server

import (
	"encoding/json"

	"github.com/jasmin-lang/jasmin-lsp/internal/diagnostics"
	"github.com/jasmin-lang/jasmin-lsp/internal/eventqueue"
	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
	"github.com/jasmin-lang/jasmin-lsp/internal/rpc"
)

// publishDiagnosticsFor builds a High-priority publishDiagnostics
// notification event for uri from the store's current tree, or an
// empty-array notification if the URI has no tree (parse failure, or a
// deliberately empty diagnostics refresh for a deleted file).
func (st *ServerState) publishDiagnosticsFor(uri protocol.DocumentURI, log Logger) (eventqueue.Event, bool) {
	tree, ok := st.Store.Tree(uri)
	diags := []protocol.Diagnostic{}
	if ok && tree != nil {
		var diagLog diagnosticsLogAdapter
		diagLog.log = log
		if built := diagnostics.Build(tree.RootNode(), diagLog); built != nil {
			diags = built
		}
	}
	body, err := rpc.EncodeNotification("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
	if err != nil {
		return eventqueue.Event{}, false
	}
	return diagnosticsEvent(body), true
}

// diagnosticsLogAdapter narrows server.Logger to diagnostics.Logger.
type diagnosticsLogAdapter struct{ log Logger }

func (a diagnosticsLogAdapter) Warningf(format string, args ...interface{}) {
	if a.log != nil {
		a.log.Warningf(format, args...)
	}
}

// publishForCurrentAndClosure implements spec.md §4.10's "after Open or
// Change, publish diagnostics for the changed URI and every other
// currently-open URI in the relevant closure."
func (st *ServerState) publishForCurrentAndClosure(uri protocol.DocumentURI, log Logger) []eventqueue.Event {
	relevant, source := st.relevantFiles(uri)
	source.Scratch.Drop()

	var events []eventqueue.Event
	if ev, ok := st.publishDiagnosticsFor(uri, log); ok {
		events = append(events, ev)
	}
	for other := range relevant {
		if other == uri || !st.Store.IsOpen(other) {
			continue
		}
		if ev, ok := st.publishDiagnosticsFor(other, log); ok {
			events = append(events, ev)
		}
	}
	return events
}

func handleDidOpen(st *ServerState, params json.RawMessage) ([]eventqueue.Event, error) {
	var p protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	st.Store.Open(p.TextDocument.URI, p.TextDocument.Text, p.TextDocument.Version)
	return st.publishForCurrentAndClosure(p.TextDocument.URI, nil), nil
}

func handleDidChange(st *ServerState, params json.RawMessage) ([]eventqueue.Event, error) {
	var p protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	if len(p.ContentChanges) == 0 {
		return nil, nil
	}
	// Full sync only, per spec.md §1's non-goal on incremental reparsing:
	// the last change carries the entire new document content.
	text := p.ContentChanges[len(p.ContentChanges)-1].Text
	st.Store.Update(p.TextDocument.URI, text, p.TextDocument.Version)
	return st.publishForCurrentAndClosure(p.TextDocument.URI, nil), nil
}

func handleDidClose(st *ServerState, params json.RawMessage) ([]eventqueue.Event, error) {
	var p protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	retained := st.Store.Close(p.TextDocument.URI, st.inClosure)
	if !retained {
		return nil, nil
	}
	if ev, ok := st.publishDiagnosticsFor(p.TextDocument.URI, nil); ok {
		return []eventqueue.Event{ev}, nil
	}
	return nil, nil
}

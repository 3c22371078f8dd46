package server

import (
	"encoding/json"
	"fmt"
	"runtime/debug"

	"github.com/jasmin-lang/jasmin-lsp/internal/eventqueue"
	"github.com/jasmin-lang/jasmin-lsp/internal/rpc"
)

// requestHandler answers one Request with a result or an error; extra
// carries any additional events the handler wants enqueued alongside
// its response (e.g. a High-priority publishDiagnostics notification).
// Handlers never write to the channel themselves, per spec.md §4.2.
type requestHandler func(st *ServerState, params json.RawMessage) (result interface{}, extra []eventqueue.Event, err error)

// notificationHandler handles a one-way message; it has no response,
// but may still enqueue events (diagnostics, the reserved
// configuration request, ...).
type notificationHandler func(st *ServerState, params json.RawMessage) (extra []eventqueue.Event, err error)

// Dispatcher maps LSP method names to handlers.
type Dispatcher struct {
	requests      map[string]requestHandler
	notifications map[string]notificationHandler
}

// NewDispatcher builds the method table spec.md §4.10/§6 and
// SPEC_FULL.md §4.8 describe, one handler per LSP method plus this
// server's three custom methods.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		requests:      map[string]requestHandler{},
		notifications: map[string]notificationHandler{},
	}

	d.requests["initialize"] = handleInitialize
	d.requests["shutdown"] = handleShutdown
	d.requests["textDocument/definition"] = handleDefinition
	d.requests["textDocument/references"] = handleReferences
	d.requests["textDocument/hover"] = handleHover
	d.requests["textDocument/documentSymbol"] = handleDocumentSymbol
	d.requests["workspace/symbol"] = handleWorkspaceSymbol
	d.requests["textDocument/rename"] = handleRename
	d.requests["jasmin-lsp/getRequiredNamespaces"] = handleGetRequiredNamespaces

	d.notifications["initialized"] = handleInitialized
	d.notifications["exit"] = handleExit
	d.notifications["$/cancelRequest"] = handleCancel
	d.notifications["textDocument/didOpen"] = handleDidOpen
	d.notifications["textDocument/didChange"] = handleDidChange
	d.notifications["textDocument/didClose"] = handleDidClose
	d.notifications["workspace/didChangeWatchedFiles"] = handleDidChangeWatchedFiles
	d.notifications["jasmin-lsp/setMasterFile"] = handleSetMasterFile
	d.notifications["jasmin-lsp/setNamespacePaths"] = handleSetNamespacePaths

	return d
}

// Dispatch handles one decoded packet against st, returning every event
// that must be enqueued as a result (response and/or side effects). A
// Response packet is routed by id: only the reserved configuration id
// is meaningful to this core; any other id is discarded, per spec.md
// §4.1.
func (d *Dispatcher) Dispatch(pkt rpc.Packet, st *ServerState, log Logger) []eventqueue.Event {
	switch pkt.Kind {
	case rpc.KindRequest:
		return d.dispatchRequest(pkt.Req, st, log)
	case rpc.KindNotification:
		return d.dispatchNotification(pkt.Notif, st, log)
	case rpc.KindResponse:
		if pkt.Resp.ID.Equal(rpc.ReservedConfigID) {
			handleConfigurationResponse(st, pkt.Resp, log)
		}
		return nil
	default:
		return nil
	}
}

func (d *Dispatcher) dispatchRequest(req *rpc.Request, st *ServerState, log Logger) (events []eventqueue.Event) {
	handler, ok := d.requests[req.Method]
	if !ok {
		events = append(events, encodeErrorEvent(req.ID, rpc.CodeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method)))
		return events
	}

	result, extra, err := safeCallRequest(handler, st, req.Params, log)
	if err != nil {
		events = append(events, encodeErrorEvent(req.ID, rpc.CodeInternalError, err.Error()))
		events = append(events, extra...)
		return events
	}

	body, encErr := rpc.EncodeResult(req.ID, result)
	if encErr != nil {
		events = append(events, encodeErrorEvent(req.ID, rpc.CodeInternalError, encErr.Error()))
		return events
	}
	events = append(events, eventqueue.Event{Priority: eventqueue.Immediate, Kind: eventqueue.OutboundJSON, Payload: body})
	events = append(events, extra...)
	return events
}

func (d *Dispatcher) dispatchNotification(notif *rpc.Notification, st *ServerState, log Logger) []eventqueue.Event {
	handler, ok := d.notifications[notif.Method]
	if !ok {
		if log != nil {
			log.Warningf("server: no handler for notification %s, ignoring", notif.Method)
		}
		return nil
	}
	extra, err := safeCallNotification(handler, st, notif.Params, log)
	if err != nil && log != nil {
		log.Warningf("server: notification %s failed: %v", notif.Method, err)
	}
	return extra
}

// safeCallRequest recovers a panicking handler into an InternalError,
// per SPEC_FULL.md §2's error-handling section (grounded on the
// teacher's lsp.go handle method, which performs the analogous
// recover-and-convert).
func safeCallRequest(h requestHandler, st *ServerState, params json.RawMessage, log Logger) (result interface{}, extra []eventqueue.Event, err error) {
	defer func() {
		if r := recover(); r != nil {
			if log != nil {
				log.Warningf("server: recovered panic in request handler: %v\n%s", r, debug.Stack())
			}
			result, extra, err = nil, nil, fmt.Errorf("internal error")
		}
	}()
	return h(st, params)
}

func safeCallNotification(h notificationHandler, st *ServerState, params json.RawMessage, log Logger) (extra []eventqueue.Event, err error) {
	defer func() {
		if r := recover(); r != nil {
			if log != nil {
				log.Warningf("server: recovered panic in notification handler: %v\n%s", r, debug.Stack())
			}
			extra, err = nil, fmt.Errorf("internal error")
		}
	}()
	return h(st, params)
}

func encodeErrorEvent(id rpc.ID, code int, message string) eventqueue.Event {
	body, _ := rpc.EncodeError(id, &rpc.Error{Code: code, Message: message})
	return eventqueue.Event{Priority: eventqueue.Immediate, Kind: eventqueue.OutboundJSON, Payload: body}
}

func diagnosticsEvent(body []byte) eventqueue.Event {
	return eventqueue.Event{Priority: eventqueue.High, Kind: eventqueue.OutboundJSON, Payload: body}
}

func lowPriorityOutbound(body []byte) eventqueue.Event {
	return eventqueue.Event{Priority: eventqueue.Low, Kind: eventqueue.OutboundJSON, Payload: body}
}

package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasmin-lang/jasmin-lsp/internal/eventqueue"
	"github.com/jasmin-lang/jasmin-lsp/internal/rpc"
)

func newTestState() *ServerState {
	return NewServerState(&fakeParser{}, func(string) bool { return false })
}

func TestDispatchUnknownMethodReturnsMethodNotFound(t *testing.T) {
	d := NewDispatcher()
	st := newTestState()
	req := &rpc.Request{ID: rpc.NewIntID(1), Method: "textDocument/doesNotExist"}

	events := d.Dispatch(rpc.Packet{Kind: rpc.KindRequest, Req: req}, st, nil)
	require.Len(t, events, 1)
	assert.Equal(t, eventqueue.Immediate, events[0].Priority)

	body, ok := events[0].Payload.([]byte)
	require.True(t, ok)
	var resp rpc.Response
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, rpc.CodeMethodNotFound, resp.Error.Code)
}

func TestDispatchUnknownNotificationIsIgnored(t *testing.T) {
	d := NewDispatcher()
	st := newTestState()
	notif := &rpc.Notification{Method: "textDocument/somethingUnknown"}

	events := d.Dispatch(rpc.Packet{Kind: rpc.KindNotification, Notif: notif}, st, nil)
	assert.Nil(t, events)
}

func TestDispatchResponseOnlyHandlesReservedConfigID(t *testing.T) {
	d := NewDispatcher()
	st := newTestState()

	// A response with some other id is silently discarded.
	resp := &rpc.Response{ID: rpc.NewIntID(7)}
	events := d.Dispatch(rpc.Packet{Kind: rpc.KindResponse, Resp: resp}, st, nil)
	assert.Nil(t, events)
}

func TestSafeCallRequestRecoversPanic(t *testing.T) {
	panicking := func(st *ServerState, params json.RawMessage) (interface{}, []eventqueue.Event, error) {
		panic("boom")
	}
	result, extra, err := safeCallRequest(panicking, newTestState(), nil, nil)
	assert.Nil(t, result)
	assert.Nil(t, extra)
	require.Error(t, err)
}

func TestSafeCallNotificationRecoversPanic(t *testing.T) {
	panicking := func(st *ServerState, params json.RawMessage) ([]eventqueue.Event, error) {
		panic("boom")
	}
	extra, err := safeCallNotification(panicking, newTestState(), nil, nil)
	assert.Nil(t, extra)
	require.Error(t, err)
}

func TestDispatchRequestPanicBecomesInternalError(t *testing.T) {
	d := &Dispatcher{
		requests: map[string]requestHandler{
			"boom": func(st *ServerState, params json.RawMessage) (interface{}, []eventqueue.Event, error) {
				panic("kaboom")
			},
		},
		notifications: map[string]notificationHandler{},
	}
	req := &rpc.Request{ID: rpc.NewIntID(3), Method: "boom"}
	events := d.Dispatch(rpc.Packet{Kind: rpc.KindRequest, Req: req}, newTestState(), nil)
	require.Len(t, events, 1)

	body := events[0].Payload.([]byte)
	var resp rpc.Response
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, rpc.CodeInternalError, resp.Error.Code)
}

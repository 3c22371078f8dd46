package server

import (
	"errors"

	"github.com/jasmin-lang/jasmin-lsp/internal/eventqueue"
	"github.com/jasmin-lang/jasmin-lsp/internal/rpc"
)

// Logger is the minimal logging surface this package needs; satisfied
// directly by *logging.Logger from gopkg.in/op/go-logging.v1.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Server wires a Channel, an event Queue, a ServerState and a
// Dispatcher into the single-threaded run loop of spec.md §4.2/§5.
// FileEvents, if non-nil, is a channel of filesystem-change
// notifications (see watched_files.go) folded into the same priority
// queue as client-sent requests; it is this core's supplement to
// workspace/didChangeWatchedFiles (SPEC_FULL.md §3's fsnotify entry).
type Server struct {
	Channel    *rpc.Channel
	Queue      *eventqueue.Queue
	State      *ServerState
	Dispatcher *Dispatcher
	Log        Logger

	FileEvents <-chan rpc.Notification

	stdin chan stdinRead
}

type stdinRead struct {
	pkt rpc.Packet
	err error
}

// NewServer builds a Server ready to Run.
func NewServer(channel *rpc.Channel, state *ServerState, log Logger) *Server {
	return &Server{
		Channel:    channel,
		Queue:      eventqueue.New(),
		State:      state,
		Dispatcher: NewDispatcher(),
		Log:        log,
	}
}

// startStdinReader launches the single goroutine that ever calls
// Channel.ReadMessage, so concurrent reads from the underlying
// bufio.Reader never race even when FileEvents is wired alongside it.
func (srv *Server) startStdinReader() {
	if srv.stdin != nil {
		return
	}
	srv.stdin = make(chan stdinRead, 1)
	go func() {
		for {
			body, err := srv.Channel.ReadMessage()
			if err != nil {
				srv.stdin <- stdinRead{err: err}
				if errors.Is(err, rpc.ErrEndOfStream) {
					return
				}
				continue
			}
			pkt, decErr := rpc.Decode(body)
			srv.stdin <- stdinRead{pkt: pkt, err: decErr}
		}
	}()
}

// Run is the loop of spec.md §4.2: pop the minimum-priority event if
// the queue is non-empty; otherwise block for the next inbound packet
// (or, if FileEvents is wired, the next filesystem notification,
// whichever arrives first). It returns nil once the input reaches end
// of stream; every other read or decode error is logged and the loop
// keeps reading, so Run never returns a non-nil error.
func (srv *Server) Run() error {
	srv.startStdinReader()
	for {
		if !srv.Queue.Empty() {
			ev, _ := srv.Queue.Pop()
			srv.handleEvent(ev)
			continue
		}

		pkt, ok, err := srv.receiveNext()
		if err != nil {
			if errors.Is(err, rpc.ErrEndOfStream) {
				if srv.Log != nil {
					srv.Log.Infof("server: end of stream, shutting down")
				}
				return nil
			}
			if srv.Log != nil {
				srv.Log.Warningf("server: parse error: %v", err)
			}
			continue
		}
		if !ok {
			continue
		}
		for _, ev := range srv.Dispatcher.Dispatch(pkt, srv.State, srv.Log) {
			srv.Queue.Push(ev)
		}
	}
}

// receiveNext blocks for the next inbound packet, from either stdio or
// a wired filesystem watcher. ok is false for a transient condition
// (e.g. a folded-in fsnotify event) that produced no packet to decode.
func (srv *Server) receiveNext() (rpc.Packet, bool, error) {
	if srv.FileEvents == nil {
		r := <-srv.stdin
		if r.err != nil {
			return rpc.Packet{}, false, r.err
		}
		return r.pkt, true, nil
	}

	select {
	case r := <-srv.stdin:
		if r.err != nil {
			return rpc.Packet{}, false, r.err
		}
		return r.pkt, true, nil
	case notif, open := <-srv.FileEvents:
		if !open {
			srv.FileEvents = nil
			return rpc.Packet{}, false, nil
		}
		return rpc.Packet{Kind: rpc.KindNotification, Notif: &notif}, true, nil
	}
}

func (srv *Server) handleEvent(ev eventqueue.Event) {
	switch ev.Kind {
	case eventqueue.OutboundJSON:
		body, ok := ev.Payload.([]byte)
		if !ok {
			return
		}
		if err := srv.Channel.WriteMessage(body); err != nil && srv.Log != nil {
			srv.Log.Warningf("server: write failed: %v", err)
		}
	case eventqueue.InboundPacket:
		pkt, ok := ev.Payload.(rpc.Packet)
		if !ok {
			return
		}
		for _, e := range srv.Dispatcher.Dispatch(pkt, srv.State, srv.Log) {
			srv.Queue.Push(e)
		}
	}
}

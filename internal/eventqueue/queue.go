// Package eventqueue implements spec.md §4.2's priority event queue: a
// min-heap keyed by priority (Immediate < High < Low); events of equal
// priority pop in the order they were pushed. The server loop pops the minimum
// event when the queue is non-empty and otherwise blocks on the
// channel for the next inbound packet.
package eventqueue

import "container/heap"

// Priority orders events; lower values sort first.
type Priority int

const (
	Immediate Priority = iota
	High
	Low
)

// PayloadKind discriminates an Event's payload.
type PayloadKind int

const (
	InboundPacket PayloadKind = iota
	OutboundJSON
)

// Event is one unit of work the server loop drains. Payload carries
// either a decoded rpc.Packet (InboundPacket) or a pre-encoded JSON
// message body (OutboundJSON); callers type-assert on Kind.
type Event struct {
	Priority Priority
	Kind     PayloadKind
	Payload  interface{}
}

// item wraps an Event with its heap index and insertion order, so that
// items of equal priority are not reordered unpredictably relative to
// Go's non-stable heap (the spec does not require FIFO within a level,
// but a stable tie-break keeps behavior deterministic and easy to test).
type item struct {
	event Event
	seq   int
	index int
}

type itemHeap []*item

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].event.Priority != h[j].event.Priority {
		return h[i].event.Priority < h[j].event.Priority
	}
	return h[i].seq < h[j].seq
}

func (h itemHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *itemHeap) Push(x interface{}) {
	it := x.(*item)
	it.index = len(*h)
	*h = append(*h, it)
}

func (h *itemHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*h = old[:n-1]
	return it
}

// Queue is a min-heap of Events ordered by Priority. It is not
// safe for concurrent use; the server loop is single-threaded by
// design (spec.md §5).
type Queue struct {
	h    itemHeap
	next int
}

// New returns an empty Queue.
func New() *Queue {
	q := &Queue{h: make(itemHeap, 0, 16)}
	heap.Init(&q.h)
	return q
}

// Push enqueues an event.
func (q *Queue) Push(e Event) {
	heap.Push(&q.h, &item{event: e, seq: q.next})
	q.next++
}

// PushInbound is a convenience wrapper for the common High-priority
// inbound-packet case spec.md §4.2 describes.
func (q *Queue) PushInbound(priority Priority, packet interface{}) {
	q.Push(Event{Priority: priority, Kind: InboundPacket, Payload: packet})
}

// PushOutbound enqueues an Immediate outbound JSON body, per §4.2's
// "outbound JSON is enqueued as Immediate".
func (q *Queue) PushOutbound(body []byte) {
	q.Push(Event{Priority: Immediate, Kind: OutboundJSON, Payload: body})
}

// Pop removes and returns the minimum-priority event. ok is false if
// the queue was empty.
func (q *Queue) Pop() (Event, bool) {
	if q.h.Len() == 0 {
		return Event{}, false
	}
	it := heap.Pop(&q.h).(*item)
	return it.event, true
}

// Len reports the number of pending events.
func (q *Queue) Len() int { return q.h.Len() }

// Empty reports whether the queue has no pending events.
func (q *Queue) Empty() bool { return q.h.Len() == 0 }

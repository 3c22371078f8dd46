package rpc

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ID is a JSON-RPC request id: either a string or a number, per the
// spec. The zero value is not a valid id; use NewIntID/NewStringID.
type ID struct {
	str    string
	num    int64
	isStr  bool
	isNull bool
}

func NewIntID(n int64) ID     { return ID{num: n} }
func NewStringID(s string) ID { return ID{str: s, isStr: true} }

func (id ID) String() string {
	if id.isStr {
		return id.str
	}
	return fmt.Sprintf("%d", id.num)
}

func (id ID) Equal(other ID) bool {
	return id.isStr == other.isStr && id.str == other.str && id.num == other.num
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.isNull {
		return []byte("null"), nil
	}
	if id.isStr {
		return json.Marshal(id.str)
	}
	return json.Marshal(id.num)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	// Integer ids are parsed directly so values beyond float64's exact
	// range, such as ReservedConfigID, survive the round trip.
	if n, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		*id = ID{num: n}
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*id = ID{isNull: true}
	case string:
		*id = ID{str: v, isStr: true}
	case float64:
		*id = ID{num: int64(v)}
	default:
		return fmt.Errorf("rpc: invalid id type %T", raw)
	}
	return nil
}

// ReservedConfigID is the sole id this server ever generates for an
// outbound server-to-client request (the workspace/configuration
// request, spec.md §4.1). It is picked as the maximum representable
// integer id so it can never collide with a client-assigned id.
var ReservedConfigID = NewIntID(math.MaxInt64)

const jsonrpcVersion = "2.0"

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string { return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message) }

// Standard JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Request is an inbound or outbound call that expects a Response.
type Request struct {
	ID     ID              `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Notification is a one-way message with no id and no expected reply.
type Notification struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response answers a Request by ID.
type Response struct {
	ID     ID              `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *Error          `json:"error,omitempty"`
}

// PacketKind discriminates a decoded Packet.
type PacketKind int

const (
	KindRequest PacketKind = iota
	KindNotification
	KindResponse
)

// Packet is the tagged union of the three JSON-RPC message shapes this
// core ever decodes. Exactly one of Req/Notif/Resp is set, per Kind.
type Packet struct {
	Kind  PacketKind
	Req   *Request
	Notif *Notification
	Resp  *Response
}

type wireMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *ID             `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// ErrBatchRejected is returned by Decode when the body is a JSON array:
// spec.md §4.1 explicitly rejects batch forms with no action.
var ErrBatchRejected = fmt.Errorf("rpc: batch requests are not supported")

// Decode parses one JSON-RPC message body into a Packet.
func Decode(body []byte) (Packet, error) {
	trimmed := firstNonSpace(body)
	if trimmed == '[' {
		return Packet{}, ErrBatchRejected
	}
	var msg wireMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return Packet{}, fmt.Errorf("rpc: decode: %w", err)
	}
	switch {
	case msg.Method != "" && msg.ID != nil:
		return Packet{Kind: KindRequest, Req: &Request{ID: *msg.ID, Method: msg.Method, Params: msg.Params}}, nil
	case msg.Method != "":
		return Packet{Kind: KindNotification, Notif: &Notification{Method: msg.Method, Params: msg.Params}}, nil
	case msg.ID != nil:
		return Packet{Kind: KindResponse, Resp: &Response{ID: *msg.ID, Result: msg.Result, Error: msg.Error}}, nil
	default:
		return Packet{}, fmt.Errorf("rpc: message has neither method nor id")
	}
}

func firstNonSpace(b []byte) byte {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			return c
		}
	}
	return 0
}

// EncodeRequest serializes an outbound server-initiated request.
func EncodeRequest(id ID, method string, params interface{}) ([]byte, error) {
	p, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireMessage{JSONRPC: jsonrpcVersion, ID: &id, Method: method, Params: p})
}

// EncodeNotification serializes an outbound notification (no id).
func EncodeNotification(method string, params interface{}) ([]byte, error) {
	p, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireMessage{JSONRPC: jsonrpcVersion, Method: method, Params: p})
}

// EncodeResult serializes a successful Response to id.
func EncodeResult(id ID, result interface{}) ([]byte, error) {
	r, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireMessage{JSONRPC: jsonrpcVersion, ID: &id, Result: r})
}

// EncodeError serializes an error Response to id.
func EncodeError(id ID, rpcErr *Error) ([]byte, error) {
	return json.Marshal(wireMessage{JSONRPC: jsonrpcVersion, ID: &id, Error: rpcErr})
}

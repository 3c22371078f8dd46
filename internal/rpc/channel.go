// Package rpc implements spec.md §4.1: byte-accurate Content-Length
// framing over an arbitrary io.Reader/io.Writer pair, and a JSON-RPC 2.0
// codec on top of it. It intentionally does not use
// github.com/sourcegraph/jsonrpc2's own Conn/Handler dispatch loop — see
// SPEC_FULL.md §3 for why: that library owns its own request/response
// matching and has no notion of the priority event queue spec.md §4.2
// requires the server loop to expose. The framing shape below is
// grounded on the teacher's build_langserver (which relies on
// jsonrpc2.NewBufferedStream for this) and, for a from-scratch
// implementation of the same header format, on the pack's other
// from-scratch LSP transports (e.g. the Content-Length reader in
// yunhoi129-moai-adk/internal/lsp/protocol.go).
package rpc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrEndOfStream is returned by Channel.ReadMessage once the underlying reader
// is exhausted; the server loop treats this as spec.md §7's EndOfFile.
var ErrEndOfStream = errors.New("rpc: end of stream")

// Channel frames messages for a single stdio-like connection: reads and
// writes are each one full Content-Length-delimited message.
type Channel struct {
	r   *bufio.Reader
	w   io.Writer
	log Logger
}

// Logger is the minimal logging surface Channel needs; satisfied by
// gopkg.in/op/go-logging.v1's *logging.Logger.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warningf(format string, args ...interface{})
}

// NewChannel wraps r/w. log may be nil to disable logging (tests).
func NewChannel(r io.Reader, w io.Writer, log Logger) *Channel {
	return &Channel{r: bufio.NewReaderSize(r, 64*1024), w: w, log: log}
}

// ReadMessage reads one frame and returns its JSON body, exact byte for
// byte. Unknown headers are tolerated and ignored; only Content-Length
// is mandatory, per spec.md §4.1.
func (c *Channel) ReadMessage() ([]byte, error) {
	contentLength := -1
	for {
		line, err := c.r.ReadString('\n')
		if err != nil {
			if err == io.EOF && line == "" {
				return nil, ErrEndOfStream
			}
			return nil, fmt.Errorf("rpc: reading header: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			if c.log != nil {
				c.log.Warningf("rpc: malformed header %q, ignoring", line)
			}
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if strings.EqualFold(name, "Content-Length") {
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("rpc: invalid Content-Length %q: %w", value, err)
			}
			contentLength = n
		}
		// Other headers (e.g. Content-Type) are tolerated and ignored.
	}
	if contentLength < 0 {
		return nil, fmt.Errorf("rpc: message had no Content-Length header")
	}
	body := make([]byte, contentLength)
	if _, err := io.ReadFull(c.r, body); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrEndOfStream
		}
		return nil, fmt.Errorf("rpc: reading body: %w", err)
	}
	if c.log != nil {
		c.log.Debugf("rpc: read %d bytes", len(body))
	}
	return body, nil
}

// WriteMessage frames and writes body, emitting exactly len(body) bytes
// after the headers.
func (c *Channel) WriteMessage(body []byte) error {
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body))
	if _, err := io.WriteString(c.w, header); err != nil {
		return fmt.Errorf("rpc: writing header: %w", err)
	}
	if _, err := c.w.Write(body); err != nil {
		return fmt.Errorf("rpc: writing body: %w", err)
	}
	if c.log != nil {
		c.log.Debugf("rpc: wrote %d bytes", len(body))
	}
	return nil
}

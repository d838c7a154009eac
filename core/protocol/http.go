// File: core/protocol/http.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package protocol

import (
	"bytes"

	"github.com/momentics/hioload-proxy/api"
)

// HeaderTerminator ends an HTTP header block.
var HeaderTerminator = []byte("\r\n\r\n")

// HTTPProtocol accumulates chunks and emits one message per header block.
type HTTPProtocol struct {
	handler api.RequestHandler
	acc     []byte
	// the last chunk ended exactly on a terminator
	atBoundary bool
}

var _ api.InputProtocol = (*HTTPProtocol)(nil)

// NewHTTPProtocol returns a framer delivering messages to handler.
func NewHTTPProtocol(handler api.RequestHandler) *HTTPProtocol {
	return &HTTPProtocol{handler: handler}
}

// ProcessChunk appends chunk and delivers every completed header block, in
// order. A terminator may straddle chunk boundaries. A single NUL byte
// directly after a terminator is dropped, even when it arrives with the
// next chunk. Bytes after the last terminator seed the next message.
func (p *HTTPProtocol) ProcessChunk(chunk api.Buffer) {
	if len(chunk) == 0 {
		return
	}
	if p.atBoundary && chunk[0] == 0 {
		chunk = chunk[1:]
	}
	p.atBoundary = false

	// only the tail of the previous accumulation can start a terminator
	from := len(p.acc) - (len(HeaderTerminator) - 1)
	if from < 0 {
		from = 0
	}
	p.acc = append(p.acc, chunk...)

	start := 0
	for {
		i := bytes.Index(p.acc[from:], HeaderTerminator)
		if i < 0 {
			break
		}
		end := from + i + len(HeaderTerminator)
		msg := make(api.Buffer, end-start)
		copy(msg, p.acc[start:end])
		p.handler.HandleRequest(msg)
		if end < len(p.acc) && p.acc[end] == 0 {
			end++
		} else if end == len(p.acc) {
			p.atBoundary = true
		}
		start, from = end, end
	}
	if start > 0 {
		rest := p.acc[start:]
		if len(rest) == 0 {
			p.acc = nil
		} else {
			p.acc = append([]byte(nil), rest...)
		}
	}
}

// Buffered returns the number of bytes waiting for a terminator.
func (p *HTTPProtocol) Buffered() int {
	return len(p.acc)
}

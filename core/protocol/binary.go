// File: core/protocol/binary.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package protocol

import "github.com/momentics/hioload-proxy/api"

// BinaryProtocol forwards each chunk verbatim as one message.
type BinaryProtocol struct {
	handler api.RequestHandler
}

var _ api.InputProtocol = (*BinaryProtocol)(nil)

// NewBinaryProtocol returns a pass-through framer.
func NewBinaryProtocol(handler api.RequestHandler) *BinaryProtocol {
	return &BinaryProtocol{handler: handler}
}

// ProcessChunk hands chunk to the handler.
func (p *BinaryProtocol) ProcessChunk(chunk api.Buffer) {
	p.handler.HandleRequest(chunk)
}

// PassthroughOutput writes messages unchanged.
type PassthroughOutput struct{}

var _ api.OutputProtocol = PassthroughOutput{}

// Transform returns msg.
func (PassthroughOutput) Transform(msg api.Buffer) api.Buffer { return msg }

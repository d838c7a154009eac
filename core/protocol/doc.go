// Package protocol
// Author: momentics <momentics@gmail.com>
//
// Input framers and output transforms used by the connection stream adapters.
//
// Includes:
//   - HTTPProtocol: splits a byte stream on the blank line ending a header block
//   - BinaryProtocol: forwards every received chunk as one message
//   - PassthroughOutput: writes outbound messages unchanged
//
// HTTPProtocol detects only the "\r\n\r\n" boundary. It performs no body
// accounting, so request bodies end up glued to the following header block.
package protocol

// Package api
// Author: momentics <momentics@gmail.com>
//
// Error taxonomy shared by the transport, reactor and connection layers.

package api

import (
	"errors"
	"fmt"
)

// Common errors used across the proxy.
var (
	// ErrWouldBlock reports that a non-blocking socket has no data or no
	// buffer space right now. It is retried on the next readiness event.
	ErrWouldBlock = errors.New("operation would block")

	ErrSocketClosed   = fmt.Errorf("socket is closed")
	ErrWriterBusy     = fmt.Errorf("writer has a pending buffer")
	ErrNotSupported   = fmt.Errorf("operation not supported")
	ErrNotFound       = fmt.Errorf("connection not found")
	ErrNoHost         = fmt.Errorf("no host in request")
	ErrAlreadyRunning = fmt.Errorf("event loop already running")
)

// IsWouldBlock reports whether err is the retryable would-block condition.
func IsWouldBlock(err error) bool {
	return errors.Is(err, ErrWouldBlock)
}

// OpError describes a failed socket operation on a descriptor.
type OpError struct {
	Op  string
	Fd  int
	Err error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	return fmt.Sprintf("%s fd=%d: %v", e.Op, e.Fd, e.Err)
}

// Unwrap returns the underlying cause.
func (e *OpError) Unwrap() error {
	return e.Err
}

// Package api
// Author: momentics
//
// Live introspection of the running proxy.

package api

// Debug exposes runtime introspection.
type Debug interface {
	// DumpState emits a snapshot of probe values for diagnostics.
	DumpState() map[string]any

	// RegisterProbe registers a named probe evaluated on every DumpState.
	RegisterProbe(name string, fn func() any)
}

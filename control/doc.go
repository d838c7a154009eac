// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics and debug introspection for the proxy.
//
// Provides concurrent-safe state handling primitives including:
//   - Counters and gauges keyed by dotted names
//   - Probe registration evaluated on demand
//
// The event loop is single-threaded; the locks exist so that probes and
// snapshots may be read from other goroutines (signal handlers, tests).
package control

// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the readiness multiplexer driving the proxy's
// event loop: descriptors are registered once with an opaque connection tag
// and Wait yields batches of classified readiness events.
package reactor

// control/platform.go
// Author: momentics <momentics@gmail.com>
//
// Platform probes registered next to the proxy's own.

package control

import (
	"runtime"
)

// RegisterPlatformProbes adds process-level probes.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.os", func() any {
		return runtime.GOOS
	})
	dp.RegisterProbe("runtime.goroutines", func() any {
		return runtime.NumGoroutine()
	})
}

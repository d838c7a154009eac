// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations
// are located in separate files guarded by build tags.

package affinity

import "fmt"

// SetAffinity pins the calling OS thread to one logical CPU. The caller
// must hold the thread with runtime.LockOSThread for the pin to stay with
// its goroutine.
func SetAffinity(cpuID int) error {
	if cpuID < 0 {
		return fmt.Errorf("affinity: invalid cpu %d", cpuID)
	}
	return setAffinityPlatform(cpuID)
}

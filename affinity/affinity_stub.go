//go:build !linux

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>

package affinity

import "github.com/momentics/hioload-proxy/api"

func setAffinityPlatform(cpuID int) error {
	return api.ErrNotSupported
}

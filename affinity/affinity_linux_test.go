//go:build linux

package affinity_test

import (
	"runtime"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-proxy/affinity"
)

func TestSetAffinity_PinsCallingThread(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var orig unix.CPUSet
	if err := unix.SchedGetaffinity(0, &orig); err != nil {
		t.Fatalf("sched_getaffinity: %v", err)
	}
	defer unix.SchedSetaffinity(0, &orig)

	cpu := -1
	for i := 0; i < len(orig)*64; i++ {
		if orig.IsSet(i) {
			cpu = i
			break
		}
	}
	if cpu < 0 {
		t.Skip("no usable cpu in the current mask")
	}
	if err := affinity.SetAffinity(cpu); err != nil {
		t.Fatalf("SetAffinity(%d): %v", cpu, err)
	}
	var got unix.CPUSet
	if err := unix.SchedGetaffinity(0, &got); err != nil {
		t.Fatal(err)
	}
	if got.Count() != 1 || !got.IsSet(cpu) {
		t.Fatalf("mask after pin has %d cpus, cpu %d set=%v", got.Count(), cpu, got.IsSet(cpu))
	}
}

func TestSetAffinity_RejectsNegative(t *testing.T) {
	if err := affinity.SetAffinity(-1); err == nil {
		t.Fatal("expected error for negative cpu")
	}
}

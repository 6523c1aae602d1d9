//go:build !windows

package finalizer

import (
	"os"
	"syscall"
)

// IsAlive reports whether a process with the given PID is still
// running, used by `status` to check Background Finalizer liveness.
func IsAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

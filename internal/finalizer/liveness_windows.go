//go:build windows

package finalizer

import "os"

// IsAlive reports whether a process with the given PID is still
// running.
func IsAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	return err == nil && proc != nil
}

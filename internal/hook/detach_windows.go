//go:build windows

package hook

import "os/exec"

// detach is a no-op on Windows; the child still runs independently of
// the parent's stdio since none of it is inherited.
func detach(cmd *exec.Cmd) {}

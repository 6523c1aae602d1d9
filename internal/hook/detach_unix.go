//go:build !windows

package hook

import (
	"os/exec"
	"syscall"
)

// detach starts cmd in its own session so it survives the parent hook
// process exiting, per the detached-background-work model.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}

//go:build unix

// internal/harness/procgroup_unix.go
// Package: harness
package harness

import (
	"os/exec"
	"syscall"
)

// killProcessGroup starts cmd as a process group leader and makes context
// cancellation kill the group, so shells and the commands they fork die
// with it.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}

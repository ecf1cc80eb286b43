//go:build !unix

// internal/harness/procgroup_other.go
// Package: harness
package harness

import "os/exec"

// killProcessGroup is a no-op where process groups are unavailable;
// cancellation kills the direct child only.
func killProcessGroup(cmd *exec.Cmd) {}

// internal/harness/executor.go
// Package: harness
package harness

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// waitDelay bounds how long Run keeps draining output after the process
// was killed; grandchildren may still hold the pipes.
const waitDelay = 2 * time.Second

// Output is the captured result of an external process.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Executor runs an external program to completion.
type Executor interface {
	Run(ctx context.Context, name string, args ...string) (Output, error)
}

// ProcessExecutor runs programs with os/exec in Dir (the current directory
// when empty).
type ProcessExecutor struct {
	Dir string
}

// Run executes name with args and waits for it. A non-zero exit is
// returned as an *exec.ExitError alongside the captured output; a context
// deadline is returned as the context's error. The program runs in its own
// process group and cancellation kills the whole group.
func (e ProcessExecutor) Run(ctx context.Context, name string, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.Dir
	killProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes(), ExitCode: -1}
	if cmd.ProcessState != nil {
		out.ExitCode = cmd.ProcessState.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil && err != nil {
		return out, errors.Join(ctxErr, err)
	}
	return out, err
}

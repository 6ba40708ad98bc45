// Package runner executes a resolved example as a child process and captures
// its output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/harrison/patterns/internal/resolver"
)

// waitDelay bounds how long Wait keeps reading output after the child is
// killed, in case a grandchild still holds the pipes open.
const waitDelay = 2 * time.Second

var (
	// ErrSpawnFailure means the child process could not be started.
	ErrSpawnFailure = errors.New("failed to start process")

	// ErrAbnormalExit means the child process ran but did not exit with status 0.
	ErrAbnormalExit = errors.New("process exited abnormally")
)

// Result holds the outcome of one child process.
type Result struct {
	// ExitCode is the child's exit status, or -1 if it was killed by a signal
	// or never started.
	ExitCode int

	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Success reports whether the child exited with status 0.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Runner starts a process for an invocation and waits for it to finish.
type Runner interface {
	Run(ctx context.Context, inv resolver.Invocation) (*Result, error)
}

// ExecRunner runs invocations with os/exec.
// The zero value is ready to use.
type ExecRunner struct {
	// Dir is the working directory of the child. Empty means the current directory.
	Dir string

	// Env, when non-nil, replaces the child's environment.
	Env []string
}

// NewExecRunner creates an ExecRunner using the current directory and environment.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run starts the invocation and blocks until it exits. Stdout and stderr are
// collected separately while the child runs.
//
// A start failure returns a Result with ExitCode -1 and an error wrapping
// ErrSpawnFailure. A non-zero exit returns the full Result and an error
// wrapping ErrAbnormalExit.
func (r *ExecRunner) Run(ctx context.Context, inv resolver.Invocation) (*Result, error) {
	args := inv.Args()
	if len(args) < 2 {
		return &Result{ExitCode: -1}, fmt.Errorf("%w: empty command for %s", ErrSpawnFailure, inv.Path)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = r.Dir
	cmd.WaitDelay = waitDelay
	if r.Env != nil {
		cmd.Env = r.Env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return &Result{ExitCode: -1, Duration: time.Since(start)}, fmt.Errorf("%w: %s: %v", ErrSpawnFailure, inv.String(), err)
	}

	waitErr := cmd.Wait()
	result := &Result{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return result, fmt.Errorf("%w: %s: %v", ErrAbnormalExit, inv.String(), exitErr)
		}
		return result, fmt.Errorf("%w: %s: %v", ErrAbnormalExit, inv.String(), waitErr)
	}

	return result, nil
}

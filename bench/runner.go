// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bench

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// =============================================================================
// TRIAL RUNNER
// =============================================================================

// Runner executes a single trial: spawn one child process, capture its
// combined stdout and stderr, and return the text.
//
// The child's exit status is deliberately ignored when output was captured:
// the workload's printed result, validated by OutputPattern, is the
// correctness signal, not the launcher's exit code.
//
// Thread Safety: safe for concurrent use.
type Runner struct {
	workingDir string
	timeout    time.Duration
	logger     *slog.Logger
}

// RunnerOption configures the Runner.
type RunnerOption func(*Runner)

// WithWorkingDir sets the working directory for child processes.
func WithWorkingDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.workingDir = dir
	}
}

// WithTrialTimeout bounds a single trial. Zero disables the bound.
func WithTrialTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithRunnerLogger sets the logger.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a trial runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TrialRunner is the harness's view of a runner. Satisfied by *Runner;
// tests substitute canned outputs.
type TrialRunner interface {
	RunTrial(ctx context.Context, command []string, scriptPath string) (string, error)
}

// RunTrial executes one trial synchronously.
//
// Description:
//
//	Appends scriptPath to the target's command, spawns the process, and
//	returns its combined stdout+stderr as text. A missing or unstartable
//	interpreter is ErrTargetUnavailable — distinct from a normal non-zero
//	exit, which still returns the captured output for validation. One
//	invocation is one trial; there are no retries.
//
// Inputs:
//   - ctx: Cancellation context. Must not be nil.
//   - command: Target invocation argv. Must not be empty.
//   - scriptPath: Resolved benchmark implementation file.
//
// Outputs:
//   - string: Combined output text.
//   - error: ErrTargetUnavailable, ErrTrialTimeout, or nil.
//
// Thread Safety: safe for concurrent use.
func (r *Runner) RunTrial(ctx context.Context, command []string, scriptPath string) (string, error) {
	if len(command) == 0 {
		return "", fmt.Errorf("%w: empty command", ErrTargetUnavailable)
	}

	if _, err := exec.LookPath(command[0]); err != nil {
		return "", fmt.Errorf("%w: %s not found", ErrTargetUnavailable, command[0])
	}

	cmdCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	args := make([]string, 0, len(command))
	args = append(args, command[1:]...)
	args = append(args, scriptPath)

	cmd := exec.CommandContext(cmdCtx, command[0], args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}

	// Interleave stdout and stderr in arrival order, as a terminal would.
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()

	if cmdCtx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("%w after %s: %s", ErrTrialTimeout, r.timeout, command[0])
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	if err != nil {
		if _, exited := err.(*exec.ExitError); !exited {
			r.logger.Debug("trial spawn failed",
				slog.String("command", command[0]),
				slog.String("error", err.Error()),
			)
			return "", fmt.Errorf("%w: %v", ErrTargetUnavailable, err)
		}
		// Non-zero exit: the output is still the thing to validate.
	}

	return out.String(), nil
}

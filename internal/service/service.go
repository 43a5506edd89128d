// Package service runs a caller-supplied task against a transient background
// process: spawn, wait for readiness, execute, and always tear down.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

var pollSleep = time.Sleep

const defaultReadyTimeout = 30 * time.Second
const defaultPollEvery = 100 * time.Millisecond

// Spec describes the transient process and its readiness signal.
type Spec struct {
	// Command and Args launch the background process.
	Command string
	Args    []string
	// Dir is the working directory; empty means inherit.
	Dir string
	// Env is the process environment; nil means inherit.
	Env []string
	// Ready reports nil once the service can accept the task. It is polled
	// until it succeeds, the timeout elapses, or the process dies.
	Ready func(ctx context.Context) error
	// ReadyTimeout bounds the readiness poll. Zero means 30s.
	ReadyTimeout time.Duration
	// PollEvery is the poll interval. Zero means 100ms.
	PollEvery time.Duration
	// TempPaths are removed on every exit path.
	TempPaths []string
}

// ErrReadyTimeout is returned when the service never became ready in time.
var ErrReadyTimeout = errors.New("service did not become ready before the deadline")

// ErrProcessExited is returned when the process died before becoming ready.
var ErrProcessExited = errors.New("service process exited before becoming ready")

// With spawns the process described by spec, waits for readiness, runs task,
// and unconditionally releases everything on every exit path: the process is
// terminated and temp files are deleted whether the task succeeds, the task
// fails, or readiness times out.
func With(ctx context.Context, spec Spec, task func(ctx context.Context) error) error {
	cmd := exec.Command(spec.Command, spec.Args...)
	cmd.Dir = spec.Dir
	if spec.Env != nil {
		cmd.Env = spec.Env
	}
	if startErr := cmd.Start(); startErr != nil {
		removeTempPaths(spec.TempPaths)
		return fmt.Errorf("start %s: %w", spec.Command, startErr)
	}

	var waitErr error
	exited := make(chan struct{})
	go func() {
		waitErr = cmd.Wait()
		close(exited)
	}()

	defer func() {
		_ = cmd.Process.Kill()
		// Block until Wait returns so the process is reaped before temp
		// files go away.
		<-exited
		removeTempPaths(spec.TempPaths)
	}()

	if readyErr := awaitReady(ctx, spec, exited, &waitErr); readyErr != nil {
		return readyErr
	}
	return task(ctx)
}

// awaitReady polls spec.Ready under the deadline while watching for early
// process death.
func awaitReady(ctx context.Context, spec Spec, exited <-chan struct{}, waitErr *error) error {
	if spec.Ready == nil {
		return nil
	}
	timeout := spec.ReadyTimeout
	if timeout <= 0 {
		timeout = defaultReadyTimeout
	}
	poll := spec.PollEvery
	if poll <= 0 {
		poll = defaultPollEvery
	}

	deadline := time.Now().Add(timeout)
	for {
		select {
		case <-exited:
			return fmt.Errorf("%w: %v", ErrProcessExited, *waitErr)
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := spec.Ready(ctx); err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrReadyTimeout
		}
		pollSleep(poll)
	}
}

func removeTempPaths(paths []string) {
	for _, path := range paths {
		_ = os.RemoveAll(path)
	}
}

package checksrvc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"syscall"
	"time"
)

// maxOutputBytes caps the diagnostic output stored per check result.
const maxOutputBytes = 4096

// pipeWaitDelay bounds how long Run waits for the output pipes after the
// check process is gone. A check that leaks a background child would
// otherwise hold the pipe and stall the caller indefinitely.
const pipeWaitDelay = time.Second

// Executor runs check programs as isolated child processes. Exit status 0
// maps to Pass, any other exit status to Fail; a spawn failure or the
// wall-clock timeout maps to Error. The check's whole process group is
// killed when the timeout or the passed context expires.
type Executor struct {
	logger *slog.Logger
}

func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{logger: logger.With("module", "check-executor")}
}

func (e *Executor) Run(ctx context.Context, program string, args []string, timeout time.Duration) Outcome {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, program, args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	// The check runs in its own process group so cancellation kills every
	// descendant, not just the direct child; WaitDelay stops Run from
	// waiting on a pipe a leaked descendant still holds.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = pipeWaitDelay

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if runCtx.Err() != nil {
		e.logger.Warn("check timed out", "program", program, "timeout", timeout)
		return Outcome{
			Status: StatusError,
			Output: fmt.Sprintf("check timed out after %s", timeout),
		}
	}
	if err == nil {
		return Outcome{Status: StatusPass, Output: truncate(output.Bytes())}
	}

	// The process itself exited in time but something it spawned kept the
	// output pipe open past the wait delay; classify by its exit status.
	if errors.Is(err, exec.ErrWaitDelay) {
		if cmd.ProcessState.ExitCode() == 0 {
			return Outcome{Status: StatusPass, Output: truncate(output.Bytes())}
		}
		return Outcome{Status: StatusFail, Output: truncate(output.Bytes())}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		e.logger.Debug("check failed",
			"program", program, "exit_code", exitErr.ExitCode(), "elapsed", elapsed)
		return Outcome{Status: StatusFail, Output: truncate(output.Bytes())}
	}

	// the process never started
	e.logger.Warn("check could not be spawned", "program", program, "error", err)
	return Outcome{
		Status: StatusError,
		Output: fmt.Sprintf("failed to spawn check: %v", err),
	}
}

func truncate(b []byte) string {
	if len(b) > maxOutputBytes {
		return string(b[:maxOutputBytes])
	}
	return string(b)
}

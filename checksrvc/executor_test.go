package checksrvc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunExitZeroIsPass(t *testing.T) {
	exec := NewExecutor(nil)
	outcome := exec.Run(context.Background(), "/bin/sh", []string{"-c", "echo ok; exit 0"}, 5*time.Second)
	assert.Equal(t, StatusPass, outcome.Status)
	assert.Contains(t, outcome.Output, "ok")
}

func TestRunNonZeroExitIsFail(t *testing.T) {
	exec := NewExecutor(nil)
	outcome := exec.Run(context.Background(), "/bin/sh", []string{"-c", "echo login refused >&2; exit 3"}, 5*time.Second)
	assert.Equal(t, StatusFail, outcome.Status)
	assert.Contains(t, outcome.Output, "login refused")
}

func TestRunTimeoutIsError(t *testing.T) {
	exec := NewExecutor(nil)
	start := time.Now()
	outcome := exec.Run(context.Background(), "/bin/sh", []string{"-c", "sleep 5"}, 100*time.Millisecond)
	assert.Equal(t, StatusError, outcome.Status)
	assert.Contains(t, outcome.Output, "timed out")
	assert.Less(t, time.Since(start), 3*time.Second, "timeout must not block for the full sleep")
}

// a check that leaks a background child must not hold the executor (and
// with it the whole round) hostage past its timeout
func TestRunTimeoutKillsLeakedChildren(t *testing.T) {
	exec := NewExecutor(nil)
	start := time.Now()
	outcome := exec.Run(context.Background(), "/bin/sh", []string{"-c", "sleep 5 & sleep 10"}, 200*time.Millisecond)
	assert.Equal(t, StatusError, outcome.Status)
	assert.Contains(t, outcome.Output, "timed out")
	assert.Less(t, time.Since(start), 3*time.Second, "leaked children must not extend the timeout")
}

func TestRunPassDespiteLeakedPipeHolder(t *testing.T) {
	exec := NewExecutor(nil)
	start := time.Now()
	outcome := exec.Run(context.Background(), "/bin/sh", []string{"-c", "echo ok; sleep 4 & exit 0"}, 10*time.Second)
	assert.Equal(t, StatusPass, outcome.Status)
	assert.Less(t, time.Since(start), 3*time.Second, "an exited check must not wait for its pipe holders")
}

func TestRunSpawnFailureIsError(t *testing.T) {
	exec := NewExecutor(nil)
	outcome := exec.Run(context.Background(), "/no/such/program", nil, time.Second)
	assert.Equal(t, StatusError, outcome.Status)
	assert.Contains(t, outcome.Output, "failed to spawn")
}

func TestRunHonorsCallerCancellation(t *testing.T) {
	exec := NewExecutor(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	outcome := exec.Run(ctx, "/bin/sh", []string{"-c", "sleep 5"}, 10*time.Second)
	assert.Equal(t, StatusError, outcome.Status)
}

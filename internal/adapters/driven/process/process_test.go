//go:build unix

package process

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ose-migrate/internal/core/domain"
)

func fastRetry(attempts int) domain.RetryPolicy {
	return domain.RetryPolicy{MaxAttempts: attempts, Interval: 5 * time.Millisecond}
}

func alive(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}

func TestProcess_StartReadyStop(t *testing.T) {
	probes := 0
	p := New(Config{
		Name:    "sleeper",
		Command: []string{"sleep", "30"},
		Probe: func(context.Context) error {
			probes++
			if probes < 3 {
				return errors.New("not yet")
			}
			return nil
		},
		Retry: fastRetry(10),
	})
	assert.Equal(t, domain.ServiceNotStarted, p.State())

	require.NoError(t, p.Start(context.Background()))
	assert.Equal(t, domain.ServiceReady, p.State())
	assert.Equal(t, 3, probes)

	pid := p.PID()
	require.NotZero(t, pid)
	assert.True(t, alive(pid))

	require.NoError(t, p.Stop())
	assert.Equal(t, domain.ServiceStopped, p.State())
	assert.False(t, alive(pid), "process must be gone after Stop")
}

func TestProcess_NilProbeIsReadyImmediately(t *testing.T) {
	p := New(Config{Name: "sleeper", Command: []string{"sleep", "30"}})

	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	assert.Equal(t, domain.ServiceReady, p.State())
}

func TestProcess_StartupTimeoutKillsProcess(t *testing.T) {
	probes := 0
	p := New(Config{
		Name:    "sleeper",
		Command: []string{"sleep", "30"},
		Probe: func(context.Context) error {
			probes++
			return errors.New("connection refused")
		},
		Retry: fastRetry(4),
	})

	err := p.Start(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStartupTimeout)
	assert.ErrorIs(t, err, domain.ErrRetryExhausted)
	assert.Equal(t, 4, probes)
	assert.Equal(t, domain.ServiceFailedToStart, p.State())

	pid := p.PID()
	require.NotZero(t, pid)
	assert.False(t, alive(pid), "no orphaned child may be left behind")

	// Stop after a failed start is a no-op.
	assert.NoError(t, p.Stop())
	assert.Equal(t, domain.ServiceFailedToStart, p.State())
}

func TestProcess_ExitsBeforeReady(t *testing.T) {
	p := New(Config{
		Name:    "quitter",
		Command: []string{"true"},
		Probe: func(context.Context) error {
			return errors.New("connection refused")
		},
		Retry: domain.RetryPolicy{MaxAttempts: 1000, Interval: 10 * time.Millisecond},
	})

	start := time.Now()
	err := p.Start(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStartupFailure)
	assert.Contains(t, err.Error(), "exited before becoming ready")
	assert.Less(t, time.Since(start), 5*time.Second, "must not wait out the whole budget")
	assert.Equal(t, domain.ServiceFailedToStart, p.State())
}

func TestProcess_CommandNotFound(t *testing.T) {
	p := New(Config{
		Name:    "missing",
		Command: []string{"/nonexistent/ose-migrate-test-binary"},
		Retry:   fastRetry(1),
	})

	err := p.Start(context.Background())

	assert.ErrorIs(t, err, domain.ErrStartupFailure)
	assert.Equal(t, domain.ServiceFailedToStart, p.State())
	assert.Zero(t, p.PID())
	assert.NoError(t, p.Stop())
}

func TestProcess_EmptyCommand(t *testing.T) {
	p := New(Config{Name: "empty"})

	err := p.Start(context.Background())

	assert.ErrorIs(t, err, domain.ErrStartupFailure)
	assert.Equal(t, domain.ServiceFailedToStart, p.State())
}

func TestProcess_StopNeverStarted(t *testing.T) {
	p := New(Config{Name: "idle", Command: []string{"sleep", "30"}})

	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
	assert.Equal(t, domain.ServiceNotStarted, p.State())
}

func TestProcess_StopIsIdempotent(t *testing.T) {
	p := New(Config{Name: "sleeper", Command: []string{"sleep", "30"}})
	require.NoError(t, p.Start(context.Background()))

	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
	assert.Equal(t, domain.ServiceStopped, p.State())
}

func TestProcess_StartTwiceFails(t *testing.T) {
	p := New(Config{Name: "sleeper", Command: []string{"sleep", "30"}})
	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	err := p.Start(context.Background())

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, domain.ServiceReady, p.State())
}

func TestProcess_ContextCancelledDuringPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := New(Config{
		Name:    "sleeper",
		Command: []string{"sleep", "30"},
		Probe: func(context.Context) error {
			cancel()
			return errors.New("not yet")
		},
		Retry: domain.RetryPolicy{MaxAttempts: 100, Interval: time.Second},
	})

	err := p.Start(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.ServiceFailedToStart, p.State())
	assert.False(t, alive(p.PID()))
}

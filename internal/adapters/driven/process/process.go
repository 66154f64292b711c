package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/custodia-labs/ose-migrate/internal/core/domain"
	"github.com/custodia-labs/ose-migrate/internal/core/ports/driven"
	"github.com/custodia-labs/ose-migrate/internal/logger"
)

// Ensure Process implements the interface.
var _ driven.Service = (*Process)(nil)

// reapTimeout bounds how long Stop waits for a killed process to be reaped.
const reapTimeout = 5 * time.Second

// Probe reports whether a started process is ready. A nil error means ready.
type Probe func(ctx context.Context) error

// Config describes a process and how to tell when it is ready.
type Config struct {
	// Name identifies the process in logs and errors.
	Name string

	// Command is the argv to execute. Command[0] is resolved via PATH.
	Command []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Probe is polled after launch. Nil means ready as soon as launched.
	Probe Probe

	// Retry bounds readiness polling.
	Retry domain.RetryPolicy

	// Output receives the child's stdout and stderr. Nil discards them.
	Output io.Writer
}

// Process is a generic lifecycle wrapper around one external process.
type Process struct {
	cfg Config

	mu      sync.Mutex
	state   domain.ServiceState
	cmd     *exec.Cmd
	done    chan struct{}
	waitErr error
}

// New creates a process that has not been started.
func New(cfg Config) *Process {
	return &Process{
		cfg:   cfg,
		state: domain.ServiceNotStarted,
	}
}

// Name returns the configured process name.
func (p *Process) Name() string {
	return p.cfg.Name
}

// State returns the current lifecycle state.
func (p *Process) State() domain.ServiceState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// PID returns the OS process id, or 0 if the process was never launched.
func (p *Process) PID() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd == nil || p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// Start launches the process and polls the readiness probe.
// If the probe never succeeds the process group is killed before
// Start returns an error wrapping domain.ErrStartupTimeout.
func (p *Process) Start(ctx context.Context) error {
	if err := p.launch(); err != nil {
		return err
	}

	logger.Debug("%s launched (pid %d), waiting for readiness", p.cfg.Name, p.PID())

	err := p.awaitReady(ctx)
	if err == nil {
		p.mu.Lock()
		p.state = domain.ServiceReady
		p.mu.Unlock()
		logger.Info("%s ready", p.cfg.Name)
		return nil
	}

	exitedEarly := p.exited()

	p.mu.Lock()
	_ = p.kill()
	p.state = domain.ServiceFailedToStart
	p.mu.Unlock()

	switch {
	case exitedEarly:
		return fmt.Errorf("%w: %s exited before becoming ready: %v", domain.ErrStartupFailure, p.cfg.Name, p.waitErr)
	case ctx.Err() != nil:
		return fmt.Errorf("%s: %w", p.cfg.Name, ctx.Err())
	default:
		return fmt.Errorf("%w: %s: %w", domain.ErrStartupTimeout, p.cfg.Name, err)
	}
}

func (p *Process) launch() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != domain.ServiceNotStarted {
		return fmt.Errorf("%w: %s already %s", domain.ErrInvalidInput, p.cfg.Name, p.state)
	}
	if len(p.cfg.Command) == 0 {
		p.state = domain.ServiceFailedToStart
		return fmt.Errorf("%w: %s has no command", domain.ErrStartupFailure, p.cfg.Name)
	}

	//nolint:gosec // Command comes from operator configuration
	cmd := exec.Command(p.cfg.Command[0], p.cfg.Command[1:]...)
	cmd.Dir = p.cfg.Dir
	if p.cfg.Output != nil {
		cmd.Stdout = p.cfg.Output
		cmd.Stderr = p.cfg.Output
	}
	setProcessGroup(cmd)

	p.state = domain.ServiceStarting
	if err := cmd.Start(); err != nil {
		p.state = domain.ServiceFailedToStart
		return fmt.Errorf("%w: launch %s: %w", domain.ErrStartupFailure, p.cfg.Name, err)
	}

	p.cmd = cmd
	p.done = make(chan struct{})
	go func() {
		p.waitErr = cmd.Wait()
		close(p.done)
	}()
	return nil
}

// awaitReady polls the probe until it succeeds, the budget runs out,
// or the process exits on its own.
func (p *Process) awaitReady(ctx context.Context) error {
	if p.cfg.Probe == nil {
		return nil
	}

	pollCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-p.done:
			cancel()
		case <-pollCtx.Done():
		}
	}()

	err := p.cfg.Retry.Poll(pollCtx, p.cfg.Probe)
	if err != nil && errors.Is(err, context.Canceled) && ctx.Err() == nil && p.exited() {
		return fmt.Errorf("%s exited", p.cfg.Name)
	}
	return err
}

func (p *Process) exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Stop terminates the whole process group. It is a no-op for a process
// that was never started, failed to start, or is already stopped.
func (p *Process) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case domain.ServiceStarting, domain.ServiceReady:
	default:
		return nil
	}

	err := p.kill()
	p.state = domain.ServiceStopped
	if err != nil {
		return fmt.Errorf("stop %s: %w", p.cfg.Name, err)
	}
	logger.Info("%s stopped", p.cfg.Name)
	return nil
}

// kill signals the process group and waits for the child to be reaped.
// Caller must hold p.mu.
func (p *Process) kill() error {
	if p.cmd == nil || p.cmd.Process == nil {
		return nil
	}
	if p.exited() {
		return nil
	}

	err := killProcessGroup(p.cmd)

	select {
	case <-p.done:
	case <-time.After(reapTimeout):
		if err == nil {
			err = fmt.Errorf("%s (pid %d) not reaped after %s", p.cfg.Name, p.cmd.Process.Pid, reapTimeout)
		}
	}
	return err
}

package infra

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

const startTimeout = 30 * time.Second

// ProcessInfraManager runs the workpool binary as a child process.
type ProcessInfraManager struct {
	binary string
	keep   bool
	cmd    *exec.Cmd
	exited chan error
}

// NewProcessInfraManager creates a manager for the binary at path.
// With keep set, StopWorkpool leaves the process running.
func NewProcessInfraManager(binary string, keep bool) (*ProcessInfraManager, error) {
	if _, err := os.Stat(binary); err != nil {
		return nil, fmt.Errorf("workpool binary not found: %w", err)
	}
	return &ProcessInfraManager{binary: binary, keep: keep}, nil
}

func (p *ProcessInfraManager) StartWorkpool(cfg WorkpoolConfig) (string, error) {
	if p.cmd != nil {
		return "", errors.New("workpool is already running")
	}

	cmd := exec.Command(p.binary, cfg.Args()...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to start workpool: %w", err)
	}
	zap.S().Infow("workpool started", "pid", cmd.Process.Pid, "args", cfg.Args())

	p.cmd = cmd
	p.exited = make(chan error, 1)
	go func() { p.exited <- cmd.Wait() }()

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		select {
		case err := <-p.exited:
			p.exited <- err
			return struct{}{}, backoff.Permanent(fmt.Errorf("workpool exited during startup: %v", err))
		default:
		}
		conn, err := net.DialTimeout("tcp", cfg.Address, time.Second)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, conn.Close()
	}, backoff.WithBackOff(backoff.NewConstantBackOff(100*time.Millisecond)))
	if err != nil {
		_ = p.StopWorkpool()
		return "", fmt.Errorf("workpool did not come up on %s: %w", cfg.Address, err)
	}

	return cfg.Address, nil
}

// StopWorkpool sends SIGTERM and waits for the graceful drain.
func (p *ProcessInfraManager) StopWorkpool() error {
	if p.cmd == nil || p.keep {
		return nil
	}
	defer func() { p.cmd = nil }()

	if err := p.cmd.Process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to signal workpool: %w", err)
	}
	return p.wait(startTimeout)
}

func (p *ProcessInfraManager) WaitWorkpool(timeout time.Duration) error {
	if p.cmd == nil {
		return nil
	}
	defer func() { p.cmd = nil }()
	return p.wait(timeout)
}

func (p *ProcessInfraManager) wait(timeout time.Duration) error {
	select {
	case err := <-p.exited:
		return err
	case <-time.After(timeout):
		_ = p.cmd.Process.Kill()
		return fmt.Errorf("workpool did not exit within %s", timeout)
	}
}

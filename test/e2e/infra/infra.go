package infra

import (
	"strconv"
	"time"
)

// InfraManager abstracts the workpool lifecycle for e2e tests.
// Process-based: runs the workpool binary as a child process.
// External: no-op, the server is started and stopped by the caller.
type InfraManager interface {
	StartWorkpool(cfg WorkpoolConfig) (string, error)
	StopWorkpool() error
	// WaitWorkpool blocks until the process exits on its own, e.g. after max-connections.
	WaitWorkpool(timeout time.Duration) error
}

// WorkpoolConfig holds the settings passed to `workpool serve`.
type WorkpoolConfig struct {
	Address        string
	Workers        int
	MaxConnections int
	SleepDelay     time.Duration
	StaticsFolder  string
	StorePath      string
}

// Args renders the config as serve flags.
func (c WorkpoolConfig) Args() []string {
	args := []string{"serve", "--address", c.Address, "--log-format", "json"}
	if c.Workers > 0 {
		args = append(args, "--workers", strconv.Itoa(c.Workers))
	}
	if c.MaxConnections > 0 {
		args = append(args, "--max-connections", strconv.Itoa(c.MaxConnections))
	}
	if c.SleepDelay > 0 {
		args = append(args, "--sleep-delay", c.SleepDelay.String())
	}
	if c.StaticsFolder != "" {
		args = append(args, "--statics-folder", c.StaticsFolder)
	}
	if c.StorePath != "" {
		args = append(args, "--store-path", c.StorePath)
	}
	return args
}

package pool

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/workpool/pkg/errors"
)

const defaultName = "default"

type Pool struct {
	name    string
	size    int
	workers []*worker
	ch      *channel[message]
	log     *zap.SugaredLogger
	metrics *Metrics
	pm      *poolMetrics

	// mu orders Submit against Close: once closed is set no job can be
	// queued behind the terminate messages.
	mu     sync.RWMutex
	closed bool
}

// NewPool starts a pool of size workers sharing one dispatch channel.
//
// It panics if size is not positive.
func NewPool(size int, opts ...Option) *Pool {
	if size <= 0 {
		panic(fmt.Sprintf("pool: size must be greater than zero, got %d", size))
	}

	p := &Pool{
		name: defaultName,
		size: size,
		ch:   newChannel[message](),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = zap.S().Named("pool")
	}
	p.log = p.log.With("pool", p.name)
	p.pm = p.metrics.forPool(p.name)

	p.workers = make([]*worker, 0, size)
	for id := range size {
		p.workers = append(p.workers, newWorker(id, p.ch, p.log, p.pm))
	}

	p.log.Debugw("pool started", "workers", size)
	return p
}

// Submit queues job for execution and returns without waiting for it.
// It fails with a PoolClosedError once Close has been called.
func (p *Pool) Submit(job Job) error {
	if job == nil {
		return srvErrors.NewInvalidJobError(p.name)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed || !p.ch.send(newJobMessage(job)) {
		p.pm.jobRejected()
		return srvErrors.NewPoolClosedError(p.name)
	}

	p.pm.jobSubmitted(p.ch.len())
	return nil
}

// Close sends one terminate message per worker and waits for every worker to
// stop. Jobs queued before Close still run. Every worker is joined even when
// some report an error; the errors are joined into the returned value.
//
// Calling Close twice panics.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		panic(fmt.Sprintf("pool: %q closed more than once", p.name))
	}
	p.closed = true

	p.log.Info("sending terminate message to all workers")
	for range p.workers {
		p.ch.send(terminateMessage)
	}
	p.mu.Unlock()

	p.log.Info("shutting down all workers")

	var errs []error
	for _, w := range p.workers {
		p.log.Debugw("shutting down worker", "worker", w.id)
		if err := w.join(); err != nil {
			p.log.Errorw("worker stopped with error", "worker", w.id, "error", err)
			errs = append(errs, err)
		}
	}
	p.ch.close()

	return errors.Join(errs...)
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Name returns the pool name.
func (p *Pool) Name() string {
	return p.name
}

// QueueLen returns the number of messages not yet picked up by a worker.
func (p *Pool) QueueLen() int {
	return p.ch.len()
}

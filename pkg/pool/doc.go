// Package pool implements a fixed-size worker pool with at-most-once job
// execution and a two-phase graceful shutdown.
//
// The pool starts N worker goroutines that share the receiving side of a
// single dispatch channel. Jobs are submitted via Submit and run on whichever
// worker dequeues them first. Close stops the pool after every job queued
// before it has run.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                              Pool                                   │
//	│                                                                     │
//	│  ┌──────────────┐      ┌──────────────┐      ┌──────────────┐       │
//	│  │   Worker 0   │      │   Worker 1   │      │  Worker N-1  │       │
//	│  └──────────────┘      └──────────────┘      └──────────────┘       │
//	│         ▲                     ▲                     ▲               │
//	│         │      receive()      │                     │               │
//	│         └─────────────────────┼─────────────────────┘               │
//	│                               │                                     │
//	│  ┌────────────────────────────┴────────────────────────────┐        │
//	│  │                   Dispatch Channel (FIFO)               │        │
//	│  │  [job1] [job2] [job3] ... [terminate] ... [terminate]   │        │
//	│  └─────────────────────────────────────────────────────────┘        │
//	│                               ▲                                     │
//	│                               │ send()                              │
//	│                        Submit(job) / Close()                        │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # Dispatch Channel
//
// The channel is an unbounded queue guarded by a mutex and a condition
// variable:
//   - send never blocks the producer
//   - receive blocks until a message is queued
//   - every message is handed to exactly one worker
//   - messages leave the queue in the order they were sent
//
// A message is either a job or a terminate signal.
//
// # Worker Lifecycle
//
//	┌───────────┐   terminate    ┌───────────┐
//	│  Running  │ ─────────────► │  Stopped  │
//	└─────┬─────┘                └───────────┘
//	      │  ▲
//	  job │  │ job returned / panicked
//	      ▼  │
//	  execute()
//
// The channel lock is held only while a message is dequeued, never while a
// job runs, so N workers run N jobs in parallel.
//
// # Panic Recovery
//
// Workers recover from panics in jobs:
//
//	defer func() {
//	    if rec := recover(); rec != nil {
//	        log.Errorw("job panicked", "worker", id, "panic", rec)
//	    }
//	}()
//
// The worker then goes back to the channel. A job that calls runtime.Goexit
// cannot be recovered; the worker loop is restarted on a new goroutine and the
// exit is reported as a WorkerExitError when the pool is closed.
//
// # Graceful Shutdown
//
// Close performs a two-phase shutdown:
//
//  1. Marks the pool closed; later Submit calls return PoolClosedError
//  2. Sends one terminate message per worker, behind every queued job
//  3. Joins the workers in id order, collecting errors without stopping early
//  4. Closes the channel
//
// Because delivery follows send order and a worker stops receiving after its
// terminate message, each worker receives exactly one terminate. Submit and
// Close are serialised by a read/write lock, so a job can never be queued
// behind the terminate messages.
//
// Close must be called exactly once; a second call panics.
//
// # Usage Example
//
//	p := pool.NewPool(4, pool.WithName("http"))
//	defer func() {
//	    if err := p.Close(); err != nil {
//	        log.Printf("pool shutdown: %v", err)
//	    }
//	}()
//
//	if err := p.Submit(func() {
//	    handle(conn)
//	}); err != nil {
//	    conn.Close()
//	}
package pool

package pool

import (
	"runtime/debug"
	"sync"
	"time"

	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/workpool/pkg/errors"
)

type worker struct {
	id      int
	ch      *channel[message]
	log     *zap.SugaredLogger
	metrics *poolMetrics
	done    chan struct{}

	mu    sync.Mutex
	exits int
}

func newWorker(id int, ch *channel[message], log *zap.SugaredLogger, metrics *poolMetrics) *worker {
	w := &worker{
		id:      id,
		ch:      ch,
		log:     log,
		metrics: metrics,
		done:    make(chan struct{}),
	}
	w.metrics.workerStarted()
	go w.run()
	return w
}

// run pulls one message at a time until it receives a terminate signal.
// If a job ends the goroutine with runtime.Goexit the loop is restarted on a
// fresh goroutine, so the worker keeps serving and the exit is reported by join.
func (w *worker) run() {
	stopped := false
	defer func() {
		if stopped {
			w.metrics.workerStopped()
			close(w.done)
			return
		}
		w.mu.Lock()
		w.exits++
		w.mu.Unlock()
		w.log.Errorw("worker goroutine exited inside a job, restarting", "worker", w.id)
		go w.run()
	}()

	for {
		msg, ok := w.ch.receive()
		if !ok {
			w.log.Debugw("dispatch channel closed", "worker", w.id)
			stopped = true
			return
		}
		if msg.isTerminate() {
			w.log.Debugw("worker was told to terminate", "worker", w.id)
			stopped = true
			return
		}

		w.log.Debugw("worker got a job; executing", "worker", w.id)
		w.execute(msg.job)
	}
}

// execute runs job with the channel unlocked. Panics are contained here.
func (w *worker) execute(job Job) {
	start := time.Now()
	returned := false
	w.metrics.jobStarted(w.ch.len())

	defer func() {
		rec := recover()
		w.metrics.jobFinished(time.Since(start), rec != nil || !returned)
		if rec != nil {
			w.log.Errorw("job panicked", "worker", w.id, "panic", rec, "stack", string(debug.Stack()))
		}
	}()

	job()
	returned = true
}

// join blocks until the worker has stopped.
func (w *worker) join() error {
	<-w.done

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.exits > 0 {
		return srvErrors.NewWorkerExitError(w.id, w.exits)
	}
	return nil
}

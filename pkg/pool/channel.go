package pool

import "sync"

type queue[T any] []T

func (q *queue[T]) Len() int { return len(*q) }

func (q *queue[T]) Pop() T {
	old := *q
	x := old[0]
	var zero T
	old[0] = zero
	*q = old[1:]
	return x
}

func (q *queue[T]) Push(t T) {
	*q = append(*q, t)
}

// message is either a job to run or, when job is nil, a terminate signal.
type message struct {
	job Job
}

func newJobMessage(job Job) message { return message{job: job} }

var terminateMessage = message{}

func (m message) isTerminate() bool { return m.job == nil }

// channel is the unbounded FIFO shared by every worker of a pool.
// send never blocks; receive blocks until a message is available and hands
// each message to exactly one receiver, in send order.
type channel[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  queue[T]
	closed bool
}

func newChannel[T any]() *channel[T] {
	c := &channel[T]{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// send enqueues m and wakes one waiting receiver. It reports false if the
// channel has been closed.
func (c *channel[T]) send(m T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	c.queue.Push(m)
	c.cond.Signal()
	return true
}

// receive blocks until a message is queued. Once the channel is closed and
// drained it returns ok=false.
func (c *channel[T]) receive() (m T, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.queue.Len() == 0 {
		if c.closed {
			return m, false
		}
		c.cond.Wait()
	}
	return c.queue.Pop(), true
}

func (c *channel[T]) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.cond.Broadcast()
}

func (c *channel[T]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Len()
}

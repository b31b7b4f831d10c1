package errors

import (
	"errors"
	"fmt"
)

// PoolClosedError is returned when a job is submitted to a pool whose teardown has begun.
type PoolClosedError struct {
	pool string
}

func NewPoolClosedError(pool string) *PoolClosedError {
	return &PoolClosedError{pool: pool}
}

func (e *PoolClosedError) Error() string {
	return fmt.Sprintf("pool %q is closed: job not dispatched", e.pool)
}

func IsPoolClosedError(err error) bool {
	var e *PoolClosedError
	return errors.As(err, &e)
}

// InvalidJobError is returned when a nil job is submitted.
type InvalidJobError struct {
	pool string
}

func NewInvalidJobError(pool string) *InvalidJobError {
	return &InvalidJobError{pool: pool}
}

func (e *InvalidJobError) Error() string {
	return fmt.Sprintf("pool %q: job must not be nil", e.pool)
}

func IsInvalidJobError(err error) bool {
	var e *InvalidJobError
	return errors.As(err, &e)
}

// WorkerExitError reports a worker whose goroutine was terminated by a job
// (runtime.Goexit) instead of returning from the job.
type WorkerExitError struct {
	WorkerID int
	Exits    int
}

func NewWorkerExitError(id int, exits int) *WorkerExitError {
	return &WorkerExitError{WorkerID: id, Exits: exits}
}

func (e *WorkerExitError) Error() string {
	return fmt.Sprintf("worker %d exited abnormally %d time(s) while running a job", e.WorkerID, e.Exits)
}

func IsWorkerExitError(err error) bool {
	var e *WorkerExitError
	return errors.As(err, &e)
}

type ResourceNotFoundError struct {
	kind string
	id   string
}

func NewResourceNotFoundError(kind, id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{kind: kind, id: id}
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.kind, e.id)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

package task

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrAbandoned is returned by Wait on a handle that has been abandoned.
var ErrAbandoned = errors.New("task handle abandoned")

// Result is the one-shot outcome of a background operation.
type Result[T any] struct {
	Value T
	Err   error
}

// Handle tracks one submitted operation. The interactive loop polls it
// on its own schedule; completion is delivered exactly once. Abandoning
// a handle is the only cancellation primitive: the operation still runs
// to completion, but its result is discarded and can never reach
// session state.
type Handle[T any] struct {
	done      chan Result[T]
	abandoned atomic.Bool
}

func newHandle[T any]() *Handle[T] {
	return &Handle[T]{done: make(chan Result[T], 1)}
}

// Poll returns the result if the operation has finished. The second
// return is false while the operation is still in flight, after the
// result has been taken, and after Abandon, even for a result that was
// delivered before the handle was abandoned.
func (h *Handle[T]) Poll() (Result[T], bool) {
	if h.abandoned.Load() {
		var zero Result[T]
		return zero, false
	}
	select {
	case r := <-h.done:
		return r, true
	default:
		var zero Result[T]
		return zero, false
	}
}

// Wait blocks until the operation finishes or ctx is done. Intended for
// non-interactive callers (CLI, tests); the editor loop uses Poll.
// Waiting on an abandoned handle returns ErrAbandoned.
func (h *Handle[T]) Wait(ctx context.Context) (Result[T], error) {
	if h.abandoned.Load() {
		var zero Result[T]
		return zero, ErrAbandoned
	}
	select {
	case r := <-h.done:
		return r, nil
	case <-ctx.Done():
		var zero Result[T]
		return zero, ctx.Err()
	}
}

// Abandon marks the handle as no longer wanted. Any result, whether
// already delivered or still in flight, becomes unobservable, which
// guards against a stale load overwriting newer interactive edits.
func (h *Handle[T]) Abandon() {
	h.abandoned.Store(true)
}

// Package launcher starts the application lazily and hands it to callers that
// must not block while it starts.
package launcher

import (
	"context"
	"sync"
)

// Future is a value that becomes available later. Continuations attached with
// Then run on their own goroutine once the value is resolved; they never run if
// the future fails.
type Future[T any] struct {
	mu      sync.Mutex
	done    chan struct{}
	settled bool
	value   T
	err     error
	pending []func(T)
}

// NewFuture creates an unresolved future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Complete resolves the future with v and schedules pending continuations in
// registration order. It reports false if the future was already settled.
func (f *Future[T]) Complete(v T) bool {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return false
	}
	f.settled = true
	f.value = v
	pending := f.pending
	f.pending = nil
	close(f.done)
	f.mu.Unlock()

	if len(pending) > 0 {
		go func() {
			for _, fn := range pending {
				fn(v)
			}
		}()
	}
	return true
}

// Fail settles the future with err and drops pending continuations.
func (f *Future[T]) Fail(err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settled {
		return false
	}
	f.settled = true
	f.err = err
	f.pending = nil
	close(f.done)
	return true
}

// Then schedules fn to run with the value. It never blocks the caller.
func (f *Future[T]) Then(fn func(T)) {
	f.mu.Lock()
	if !f.settled {
		f.pending = append(f.pending, fn)
		f.mu.Unlock()
		return
	}
	v, err := f.value, f.err
	f.mu.Unlock()

	if err == nil {
		go fn(v)
	}
}

// Done is closed once the future is settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

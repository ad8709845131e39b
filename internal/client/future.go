package client

import "context"

// Future is the resolution of an asynchronous call.
//
// It is resolved exactly once. Await blocks until the call completes or the
// awaiting context is done, whichever happens first. Awaiting multiple times
// is allowed and returns the same resolution.
//
// Future is the single suspension point in an asynchronous call shape: the
// calling flow yields at Await and resumes deterministically with either a
// value or an error. No other state is mutated while suspended.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// NewFuture creates an unresolved future and its resolve function.
// The resolve function must be called exactly once.
func NewFuture[T any]() (*Future[T], func(T, error)) {
	f := &Future[T]{done: make(chan struct{})}
	resolve := func(val T, err error) {
		f.val = val
		f.err = err
		close(f.done)
	}
	return f, resolve
}

// Resolved creates a future that is already resolved.
// Used by implementations that fail before starting the call.
func Resolved[T any](val T, err error) *Future[T] {
	f, resolve := NewFuture[T]()
	resolve(val, err)
	return f
}

// Go runs fn in a new goroutine and returns a future resolved with its
// result. This is the canonical way for a collaborator to implement its
// asynchronous entry points on top of the synchronous ones.
func Go[T any](fn func() (T, error)) *Future[T] {
	f, resolve := NewFuture[T]()
	go func() {
		resolve(fn())
	}()
	return f
}

// Await blocks until the future resolves or ctx is done.
// On context expiry the future keeps running; only the wait is abandoned.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Package promise implements the Promise Adapter (spec.md §4.8): a
// goroutine-backed future with then/catch/finally chaining and the
// all/race/any/sequence/map combinators, its bounded-concurrency Map
// grounded on internal/adapter/health.WorkerPool's worker+channel shape.
package promise

import "sync"

// Promise is the eventual result of one asynchronous call to the Request
// Executor. It resolves exactly once; Await may be called from any number
// of goroutines.
type Promise[T any] struct {
	done  chan struct{}
	value T
	err   error
	once  sync.Once
}

// New starts fn on its own goroutine and returns a Promise for its result.
func New[T any](fn func() (T, error)) *Promise[T] {
	p := &Promise[T]{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.value, p.err = fn()
	}()
	return p
}

// Resolved returns an already-settled, successful Promise.
func Resolved[T any](value T) *Promise[T] {
	p := &Promise[T]{done: make(chan struct{}), value: value}
	close(p.done)
	return p
}

// Rejected returns an already-settled, failed Promise.
func Rejected[T any](err error) *Promise[T] {
	p := &Promise[T]{done: make(chan struct{}), err: err}
	close(p.done)
	return p
}

// Await blocks until p settles and returns its value or error.
func (p *Promise[T]) Await() (T, error) {
	<-p.done
	return p.value, p.err
}

// Done returns a channel that is closed once p has settled.
func (p *Promise[T]) Done() <-chan struct{} {
	return p.done
}

// Then chains fn onto a successful p, skipping fn (and propagating the
// error untouched) if p rejects.
func Then[T, U any](p *Promise[T], fn func(T) (U, error)) *Promise[U] {
	return New(func() (U, error) {
		v, err := p.Await()
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(v)
	})
}

// Catch chains fn onto a failed p, recovering it into a success; a
// succeeding p passes through untouched.
func Catch[T any](p *Promise[T], fn func(error) (T, error)) *Promise[T] {
	return New(func() (T, error) {
		v, err := p.Await()
		if err == nil {
			return v, nil
		}
		return fn(err)
	})
}

// Finally runs fn once p settles, regardless of outcome, then passes the
// original value/error through unchanged.
func Finally[T any](p *Promise[T], fn func()) *Promise[T] {
	return New(func() (T, error) {
		v, err := p.Await()
		fn()
		return v, err
	})
}

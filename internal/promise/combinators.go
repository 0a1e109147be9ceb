package promise

import (
	"errors"
	"sync"
)

// All resolves once every Promise in ps has resolved, preserving order; it
// rejects with the first error observed (by index, not by completion time).
// A rejection doesn't cancel the other promises still in flight — there is
// no cancellation token threaded through Promise, so All always waits out
// every member before returning.
func All[T any](ps []*Promise[T]) *Promise[[]T] {
	return New(func() ([]T, error) {
		out := make([]T, len(ps))
		var firstErr error
		for i, p := range ps {
			v, err := p.Await()
			out[i] = v
			if err != nil && firstErr == nil {
				firstErr = err
			}
		}
		if firstErr != nil {
			return nil, firstErr
		}
		return out, nil
	})
}

// Race resolves or rejects with whichever Promise in ps settles first.
func Race[T any](ps []*Promise[T]) *Promise[T] {
	return New(func() (T, error) {
		type result struct {
			v   T
			err error
		}
		resultCh := make(chan result, len(ps))
		for _, p := range ps {
			p := p
			go func() {
				v, err := p.Await()
				resultCh <- result{v, err}
			}()
		}
		r := <-resultCh
		return r.v, r.err
	})
}

// ErrAllRejected is returned by Any, joined with each input's error, when
// every input Promise rejected.
var ErrAllRejected = errors.New("promise: all inputs rejected")

// Any resolves with the first Promise in ps to succeed; it rejects only if
// every one of them rejects. The losing promises are not cancelled once a
// winner settles; their goroutines run to completion regardless.
func Any[T any](ps []*Promise[T]) *Promise[T] {
	return New(func() (T, error) {
		type result struct {
			v   T
			err error
		}
		resultCh := make(chan result, len(ps))
		for _, p := range ps {
			p := p
			go func() {
				v, err := p.Await()
				resultCh <- result{v, err}
			}()
		}

		var zero T
		errs := []error{ErrAllRejected}
		for range ps {
			r := <-resultCh
			if r.err == nil {
				return r.v, nil
			}
			errs = append(errs, r.err)
		}
		return zero, errors.Join(errs...)
	})
}

// Sequence runs each thunk in order, one at a time, stopping at the first
// error. Unlike All (which starts every Promise concurrently), the thunks
// here aren't started until their turn arrives.
func Sequence[T any](thunks []func() (T, error)) *Promise[[]T] {
	return New(func() ([]T, error) {
		out := make([]T, 0, len(thunks))
		for _, thunk := range thunks {
			v, err := thunk()
			if err != nil {
				return out, err
			}
			out = append(out, v)
		}
		return out, nil
	})
}

// Map applies fn to every item with at most concurrency workers running at
// once, grounded on the worker+channel shape of
// internal/adapter/health.WorkerPool. Results preserve the input order
// regardless of completion order.
func Map[T, U any](items []T, concurrency int, fn func(T) (U, error)) *Promise[[]U] {
	if concurrency < 1 {
		concurrency = 1
	}
	return New(func() ([]U, error) {
		out := make([]U, len(items))
		errs := make([]error, len(items))

		jobs := make(chan int)
		var wg sync.WaitGroup

		worker := func() {
			defer wg.Done()
			for i := range jobs {
				out[i], errs[i] = fn(items[i])
			}
		}

		for w := 0; w < concurrency; w++ {
			wg.Add(1)
			go worker()
		}
		for i := range items {
			jobs <- i
		}
		close(jobs)
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				return out, err
			}
		}
		return out, nil
	})
}

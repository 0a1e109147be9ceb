// Package objpool is a strongly typed wrapper around sync.Pool with
// optional Reset() support. It eliminates the need for unsafe type
// assertions (interface{} casts). Objects returned from Get() are
// guaranteed to be the correct type. If the pooled type implements the
// Resettable interface, it is automatically zeroed before being returned
// to the pool via Put().
//
// Used by the transport to recycle its multipart encoding buffer, which
// would otherwise be reallocated on every multipart request.
package objpool

import "sync"

type Resettable interface {
	Reset()
}

type Pool[T any] struct {
	pool sync.Pool
}

func New[T any](newFn func() T) *Pool[T] {
	if newFn == nil {
		panic("objpool: constructor must not be nil")
	}
	test := newFn()
	if any(test) == nil {
		panic("objpool: constructor returned nil")
	}

	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				v := newFn()
				if any(v) == nil {
					panic("objpool: constructor returned nil")
				}
				return v
			},
		},
	}
}

func (p *Pool[T]) Get() T {
	//nolint:forcetypeassert // safe: New always produces a T
	return p.pool.Get().(T)
}

func (p *Pool[T]) Put(v T) {
	if r, ok := any(v).(Resettable); ok {
		r.Reset()
	}
	p.pool.Put(v)
}

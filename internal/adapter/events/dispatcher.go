// Package events implements the engine's Event Dispatcher (spec.md §4.4): a
// priority-ordered, synchronous listener registry. Dispatch happens inline
// on the calling goroutine — listeners observe events in the same order the
// Request Executor raises them, which a lock-free pub/sub fanout cannot
// guarantee.
package events

import (
	"fmt"
	"sort"
	"sync"

	"github.com/thavarshan/fetch-go/internal/core/domain"
	"github.com/thavarshan/fetch-go/internal/core/ports"
)

type listener struct {
	fn       func(domain.Event)
	priority int
	seq      int
}

// Dispatcher is the concrete ports.EventDispatcher. Registration is rare
// and dispatch is frequent, so each name's listener slice is pre-sorted at
// registration time; Publish reads it under a read lock and runs the
// listeners after releasing that lock.
type Dispatcher struct {
	listeners map[domain.EventName][]listener
	mu        sync.RWMutex
	seq       int
	logger    domain.Logger
}

// New returns an empty Dispatcher. logger may be nil, in which case a
// panicking listener is recovered silently.
func New(logger domain.Logger) *Dispatcher {
	return &Dispatcher{listeners: make(map[domain.EventName][]listener), logger: logger}
}

// On registers listener for name. Higher priority values run first; among
// equal priorities, registration order is preserved.
func (d *Dispatcher) On(name domain.EventName, priority int, fn func(domain.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	ls := append(d.listeners[name], listener{fn: fn, priority: priority, seq: d.seq})
	sort.SliceStable(ls, func(i, j int) bool {
		if ls[i].priority != ls[j].priority {
			return ls[i].priority > ls[j].priority
		}
		return ls[i].seq < ls[j].seq
	})
	d.listeners[name] = ls
}

// Off removes every listener registered for name.
func (d *Dispatcher) Off(name domain.EventName) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.listeners, name)
}

// Publish invokes every listener registered for ev.Name, in priority order,
// synchronously on the calling goroutine. A panicking listener is recovered
// so it cannot abort the in-flight request.
func (d *Dispatcher) Publish(ev domain.Event) {
	d.mu.RLock()
	ls := d.listeners[ev.Name]
	d.mu.RUnlock()

	for _, l := range ls {
		d.dispatchOne(l.fn, ev)
	}
}

func (d *Dispatcher) dispatchOne(fn func(domain.Event), ev domain.Event) {
	defer func() {
		if r := recover(); r != nil && d.logger != nil {
			d.logger.Error("event listener panicked",
				"event", ev.Name,
				"error_message", formatRecover(r),
				"correlation_id", ev.CorrelationID,
			)
		}
	}()
	fn(ev)
}

func formatRecover(r any) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(r)
}

var (
	_ domain.EventPublisher = (*Dispatcher)(nil)
	_ ports.EventDispatcher = (*Dispatcher)(nil)
)

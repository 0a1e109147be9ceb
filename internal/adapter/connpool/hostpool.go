package connpool

import (
	"container/list"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/thavarshan/fetch-go/internal/core/domain"
	"github.com/thavarshan/fetch-go/internal/core/ports"
)

// hostPool is the per-Origin FIFO queue of idle connections (spec.md §4.2):
// borrowing pops the front, releasing pushes to the back, keeping the
// least-recently-released connection at the head so idle handles cycle
// evenly instead of pinning one connection under constant reuse. sem, when
// non-nil, caps the total number of live entries (idle + active) for this
// origin at PoolConfig.MaxPerHost.
type hostPool struct {
	idle        *list.List // of *ports.PooledConnection
	maxIdle     int
	activeCount int
	closed      bool
	sem         *semaphore.Weighted
	mu          sync.Mutex
}

func newHostPool(maxIdle, maxPerHost int) *hostPool {
	hp := &hostPool{idle: list.New(), maxIdle: maxIdle}
	if maxPerHost > 0 {
		hp.sem = semaphore.NewWeighted(int64(maxPerHost))
	}
	return hp
}

// borrow pops the oldest reusable idle connection, discarding any that have
// gone stale (closed, or idle past keep-alive) along the way.
func (hp *hostPool) borrow(keepAlive func(*domain.Connection) bool) *ports.PooledConnection {
	hp.mu.Lock()
	defer hp.mu.Unlock()

	for e := hp.idle.Front(); e != nil; {
		next := e.Next()
		pc := e.Value.(*ports.PooledConnection)
		hp.idle.Remove(e)
		if keepAlive(pc.Conn) {
			hp.activeCount++
			return pc
		}
		_ = pc.Transport.Close()
		if hp.sem != nil {
			hp.sem.Release(1)
		}
		e = next
	}
	return nil
}

// release returns an idle connection to the queue, closing it instead if the
// queue is already at maxIdle capacity or the pool has been closed.
func (hp *hostPool) release(pc *ports.PooledConnection) (closed bool) {
	hp.mu.Lock()
	defer hp.mu.Unlock()

	hp.activeCount--
	if hp.closed || hp.idle.Len() >= hp.maxIdle {
		return true
	}
	hp.idle.PushBack(pc)
	return false
}

// discard drops an active connection without returning it to the idle queue
// (used when the caller closes a connection outright, e.g. on a fatal error).
func (hp *hostPool) discard() {
	hp.mu.Lock()
	hp.activeCount--
	hp.mu.Unlock()
}

// closeAll closes every idle connection and releases the slot each one held,
// reporting how many were closed so the caller can release a matching share
// of any global cap.
func (hp *hostPool) closeAll() int {
	hp.mu.Lock()
	defer hp.mu.Unlock()

	n := hp.idle.Len()
	for e := hp.idle.Front(); e != nil; e = e.Next() {
		_ = e.Value.(*ports.PooledConnection).Transport.Close()
	}
	hp.idle.Init()
	hp.closed = true
	if hp.sem != nil && n > 0 {
		hp.sem.Release(int64(n))
	}
	return n
}

func (hp *hostPool) idleLen() int {
	hp.mu.Lock()
	defer hp.mu.Unlock()
	return hp.idle.Len()
}

func (hp *hostPool) active() int {
	hp.mu.Lock()
	defer hp.mu.Unlock()
	return hp.activeCount
}

// Package connpool implements the engine's Connection Pool (spec.md §4.2):
// a per-Origin FIFO of keep-alive connections, borrowed by the Request
// Executor before each attempt and released back afterwards.
package connpool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/sync/semaphore"

	"github.com/thavarshan/fetch-go/internal/core/domain"
	"github.com/thavarshan/fetch-go/internal/core/ports"
)

// TransportFactory builds a fresh ports.Transport dedicated to one Origin.
// The pool calls this exactly once per connection it creates; everything
// past that point is reuse.
type TransportFactory func(origin domain.Origin) (ports.Transport, error)

// Pool is the concrete ports.ConnectionPool: one hostPool per Origin, plus
// cumulative counters for spec.md §4.2's required stats (connections_created,
// connections_reused, total_requests, active_connections, average_latency,
// reuse_rate). global, when non-nil, enforces PoolConfig.MaxConnections
// across every origin; each hostPool enforces its own MaxPerHost slice of
// that budget independently.
type Pool struct {
	hosts      *xsync.Map[domain.Origin, *hostPool]
	createOnce sync.Mutex
	factory    TransportFactory
	cfg        domain.PoolConfig
	global     *semaphore.Weighted

	created  int64
	reused   int64
	requests int64
	latency  int64 // nanoseconds, accumulated via atomic
}

// New builds a Pool that constructs per-origin transports via factory.
func New(cfg domain.PoolConfig, factory TransportFactory) *Pool {
	p := &Pool{
		hosts:   xsync.NewMap[domain.Origin, *hostPool](),
		factory: factory,
		cfg:     cfg,
	}
	if cfg.MaxConnections > 0 {
		p.global = semaphore.NewWeighted(int64(cfg.MaxConnections))
	}
	return p
}

func (p *Pool) hostPoolFor(origin domain.Origin) *hostPool {
	if hp, ok := p.hosts.Load(origin); ok {
		return hp
	}

	p.createOnce.Lock()
	defer p.createOnce.Unlock()
	if hp, ok := p.hosts.Load(origin); ok {
		return hp
	}
	hp := newHostPool(p.cfg.MaxIdlePerHost, p.cfg.MaxPerHost)
	p.hosts.Store(origin, hp)
	return hp
}

// Get borrows a reusable Connection for origin, constructing a new one via
// the TransportFactory if none is idle or every idle entry has gone stale.
// Constructing a new entry blocks on ctx until a slot is free under both
// PoolConfig.MaxPerHost and PoolConfig.MaxConnections (spec.md §3's "total
// pool entries ≤ max_connections" invariant); a reused entry already holds
// its slot and needs no further acquisition.
func (p *Pool) Get(ctx context.Context, origin domain.Origin) (*ports.PooledConnection, error) {
	atomic.AddInt64(&p.requests, 1)
	hp := p.hostPoolFor(origin)

	if pc := hp.borrow(func(c *domain.Connection) bool {
		if c.Reusable(p.cfg.KeepAliveTimeout) {
			return true
		}
		if p.global != nil {
			p.global.Release(1)
		}
		return false
	}); pc != nil {
		atomic.AddInt64(&p.reused, 1)
		pc.Conn.LastUsedAt = time.Now()
		pc.Conn.ActiveRequestCount++
		return pc, nil
	}

	if hp.sem != nil {
		if err := hp.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
	}
	if p.global != nil {
		if err := p.global.Acquire(ctx, 1); err != nil {
			if hp.sem != nil {
				hp.sem.Release(1)
			}
			return nil, err
		}
	}

	tr, err := p.factory(origin)
	if err != nil {
		p.releaseSlot(hp)
		return nil, err
	}

	now := time.Now()
	pc := &ports.PooledConnection{
		Transport: tr,
		Conn: &domain.Connection{
			Handle:             tr,
			Origin:             origin,
			CreatedAt:          now,
			LastUsedAt:         now,
			ActiveRequestCount: 1,
		},
	}
	hp.mu.Lock()
	hp.activeCount++
	hp.mu.Unlock()
	atomic.AddInt64(&p.created, 1)
	return pc, nil
}

// releaseSlot frees the per-host and global capacity held by one pool entry
// that has just been permanently closed.
func (p *Pool) releaseSlot(hp *hostPool) {
	if hp.sem != nil {
		hp.sem.Release(1)
	}
	if p.global != nil {
		p.global.Release(1)
	}
}

// Release returns a Connection to its host's idle queue, or closes it
// outright if the queue is already at capacity.
func (p *Pool) Release(pc *ports.PooledConnection) {
	pc.Conn.ActiveRequestCount--
	pc.Conn.LastUsedAt = time.Now()
	hp := p.hostPoolFor(pc.Conn.Origin)
	if closed := hp.release(pc); closed {
		pc.Conn.Closed = true
		_ = pc.Transport.Close()
		p.releaseSlot(hp)
	}
}

// Close discards conn without returning it to the idle queue.
func (p *Pool) Close(pc *ports.PooledConnection) {
	pc.Conn.Closed = true
	hp := p.hostPoolFor(pc.Conn.Origin)
	hp.discard()
	_ = pc.Transport.Close()
	p.releaseSlot(hp)
}

// CloseAll closes every idle connection in every host pool. Active
// (borrowed) connections are unaffected; they close when released.
func (p *Pool) CloseAll() {
	p.hosts.Range(func(origin domain.Origin, hp *hostPool) bool {
		n := hp.closeAll()
		if p.global != nil && n > 0 {
			p.global.Release(int64(n))
		}
		return true
	})
}

// RecordLatency attributes dur to the running average the Request Executor
// exposes via Stats; callers invoke it once per completed attempt.
func (p *Pool) RecordLatency(dur time.Duration) {
	atomic.AddInt64(&p.latency, int64(dur))
}

// Stats reports cumulative pool counters across every Origin.
func (p *Pool) Stats() ports.PoolStats {
	var active int64
	p.hosts.Range(func(origin domain.Origin, hp *hostPool) bool {
		active += int64(hp.active())
		return true
	})

	return ports.PoolStats{
		ConnectionsCreated: atomic.LoadInt64(&p.created),
		ConnectionsReused:  atomic.LoadInt64(&p.reused),
		TotalRequests:      atomic.LoadInt64(&p.requests),
		ActiveConnections:  active,
		TotalLatency:       time.Duration(atomic.LoadInt64(&p.latency)),
	}
}

var _ ports.ConnectionPool = (*Pool)(nil)

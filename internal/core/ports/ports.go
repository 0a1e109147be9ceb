// Package ports declares the interfaces the Request Executor depends on,
// so each adapter (DNS cache, connection pool, retry policy, ...) can be
// swapped or faked independently of the engine that wires them together.
package ports

import (
	"context"
	"time"

	"github.com/thavarshan/fetch-go/internal/core/domain"
)

// DNSResolver resolves hostnames to ordered IP lists and caches the result.
type DNSResolver interface {
	Resolve(ctx context.Context, host string) ([]string, error)
	ResolveFirst(ctx context.Context, host string) (string, error)
	Clear(host string)
	ClearAll()
	Prune() int
	SetTTL(ttl time.Duration)
	Stats() DNSStats
}

// DNSStats reports cumulative DNS Cache counters.
type DNSStats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// Transport performs one HTTP round trip over a borrowed Connection.
type Transport interface {
	RoundTrip(ctx context.Context, req domain.Request, timeout time.Duration) (domain.Response, error)
	Close() error
}

// ConnectionPool borrows and releases reusable Connections per Origin.
type ConnectionPool interface {
	Get(ctx context.Context, origin domain.Origin) (*PooledConnection, error)
	Release(conn *PooledConnection)
	Close(conn *PooledConnection)
	CloseAll()
	Stats() PoolStats
}

// PooledConnection pairs a domain.Connection with the live Transport that
// backs it, so Release/Close can act on both together.
type PooledConnection struct {
	Conn      *domain.Connection
	Transport Transport
}

// PoolStats reports cumulative Connection Pool counters.
type PoolStats struct {
	ConnectionsCreated int64
	ConnectionsReused  int64
	TotalRequests      int64
	ActiveConnections  int64
	TotalLatency       time.Duration
}

// AverageLatency is TotalLatency / TotalRequests, or 0 if none recorded.
func (s PoolStats) AverageLatency() time.Duration {
	if s.TotalRequests == 0 {
		return 0
	}
	return s.TotalLatency / time.Duration(s.TotalRequests)
}

// ReuseRate is ConnectionsReused / TotalRequests, or 0 if none recorded.
func (s PoolStats) ReuseRate() float64 {
	if s.TotalRequests == 0 {
		return 0
	}
	return float64(s.ConnectionsReused) / float64(s.TotalRequests)
}

// RetryOutcome is what the retry policy classifies: either a response was
// received or an error occurred attempting to get one.
type RetryOutcome struct {
	Response *domain.Response
	Err      *domain.RequestError
}

// RetryPolicy is a set of stateless pure functions; spec.md §4.3 requires
// no instance state beyond per-call counters the caller holds itself.
type RetryPolicy interface {
	ShouldRetry(outcome RetryOutcome, attempt int, cfg domain.RetryConfig) bool
	DelayMs(attempt int, cfg domain.RetryConfig) int64
}

// EventDispatcher is the priority-ordered listener registry (spec.md §4.4).
type EventDispatcher interface {
	domain.EventPublisher
	On(name domain.EventName, priority int, listener func(domain.Event))
	Off(name domain.EventName)
}

// MiddlewareNext invokes the remainder of the Middleware Chain.
type MiddlewareNext func(ctx context.Context, req domain.Request) (domain.Response, error)

// Middleware wraps a request/response round trip; see spec.md §4.5.
type Middleware func(ctx context.Context, req domain.Request, next MiddlewareNext) (domain.Response, error)

// MockInterceptor is the optional global test shim (spec.md §4.6).
type MockInterceptor interface {
	Match(req domain.Request) (domain.Response, bool, error)
	Active() bool
}

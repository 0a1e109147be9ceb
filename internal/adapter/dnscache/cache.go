// Package dnscache implements the engine's DNS Cache (spec.md §4.1): a
// hostname -> ordered IP list cache with TTL, refreshed on miss or expiry.
package dnscache

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/thavarshan/fetch-go/internal/core/domain"
	"github.com/thavarshan/fetch-go/internal/core/ports"
)

// resolverFunc abstracts the platform DNS lookup so tests can substitute a
// fake without touching the network; net.DefaultResolver.LookupHost does
// the A/AAAA/gethostbyname-style fallback net/http already performs for us.
type resolverFunc func(ctx context.Context, host string) ([]string, error)

// Cache is a single-lock DNS Cache, per spec.md §4.1/§5's stated
// thread-safety requirement (readers and the refresh path serialise
// through one lock; an in-flight refresh may briefly return a stale
// entry, which is permitted by spec).
type Cache struct {
	entries  map[string]domain.DNSEntry
	resolve  resolverFunc
	inflight map[string]chan struct{}
	mu       sync.Mutex
	ttl      time.Duration
	hits     int64
	misses   int64
}

// New returns a Cache using the platform resolver with the given TTL.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries:  make(map[string]domain.DNSEntry),
		inflight: make(map[string]chan struct{}),
		ttl:      ttl,
		resolve:  defaultResolve,
	}
}

func defaultResolve(ctx context.Context, host string) ([]string, error) {
	ips, err := net.DefaultResolver.LookupHost(ctx, host)
	if err != nil {
		return nil, err
	}
	return ips, nil
}

// Resolve returns the cached or freshly-resolved, non-empty ordered IP list
// for host.
func (c *Cache) Resolve(ctx context.Context, host string) ([]string, error) {
	if ip := net.ParseIP(host); ip != nil {
		return []string{host}, nil
	}

	c.mu.Lock()
	if entry, ok := c.entries[host]; ok && !entry.Expired(time.Now()) {
		c.hits++
		c.mu.Unlock()
		return entry.Addresses, nil
	}
	c.misses++

	// Deduplicate concurrent refreshes for the same hostname: the first
	// caller performs the lookup, later callers wait on its result.
	if wait, inFlight := c.inflight[host]; inFlight {
		c.mu.Unlock()
		<-wait
		c.mu.Lock()
		if entry, ok := c.entries[host]; ok && !entry.Expired(time.Now()) {
			c.mu.Unlock()
			return entry.Addresses, nil
		}
		c.mu.Unlock()
		return c.Resolve(ctx, host)
	}

	done := make(chan struct{})
	c.inflight[host] = done
	c.mu.Unlock()

	addrs, err := c.resolve(ctx, host)

	c.mu.Lock()
	delete(c.inflight, host)
	if err == nil && len(addrs) > 0 {
		c.entries[host] = domain.DNSEntry{
			Addresses: addrs,
			ExpiresAt: time.Now().Add(c.ttl),
		}
	}
	c.mu.Unlock()
	close(done)

	if err != nil {
		return nil, &domain.DNSError{Hostname: host, Err: err}
	}
	if len(addrs) == 0 {
		return nil, &domain.DNSError{Hostname: host, Err: errEmptyResult}
	}
	return addrs, nil
}

var errEmptyResult = errNoAddresses{}

type errNoAddresses struct{}

func (errNoAddresses) Error() string { return "no addresses returned" }

// ResolveFirst returns the first IP for host.
func (c *Cache) ResolveFirst(ctx context.Context, host string) (string, error) {
	addrs, err := c.Resolve(ctx, host)
	if err != nil {
		return "", err
	}
	return addrs[0], nil
}

// Clear removes the cached entry for host, if any.
func (c *Cache) Clear(host string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, host)
}

// ClearAll removes every cached entry.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]domain.DNSEntry)
}

// Prune removes expired entries and returns how many were removed.
func (c *Cache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	removed := 0
	for host, entry := range c.entries {
		if entry.Expired(now) {
			delete(c.entries, host)
			removed++
		}
	}
	return removed
}

// SetTTL changes the TTL applied to entries resolved from now on.
func (c *Cache) SetTTL(ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttl = ttl
}

// Stats reports cumulative cache counters.
func (c *Cache) Stats() ports.DNSStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ports.DNSStats{
		Entries: len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}

var _ ports.DNSResolver = (*Cache)(nil)

package fetch

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/thavarshan/fetch-go/internal/adapter/connpool"
	"github.com/thavarshan/fetch-go/internal/adapter/dnscache"
	"github.com/thavarshan/fetch-go/internal/adapter/events"
	"github.com/thavarshan/fetch-go/internal/adapter/middleware"
	"github.com/thavarshan/fetch-go/internal/adapter/mock"
	"github.com/thavarshan/fetch-go/internal/adapter/retry"
	"github.com/thavarshan/fetch-go/internal/adapter/transport"
	"github.com/thavarshan/fetch-go/internal/core/domain"
	"github.com/thavarshan/fetch-go/internal/core/ports"
	"github.com/thavarshan/fetch-go/internal/engine"
	"github.com/thavarshan/fetch-go/pkg/profiler"
)

// Client wires together the DNS Cache, Connection Pool, Retry Policy,
// Event Dispatcher, Middleware Chain and Mock Interceptor behind the
// Request Executor, and holds the per-request defaults every
// RequestBuilder starts from.
type Client struct {
	executor   *engine.Executor
	dns        *dnscache.Cache
	pool       *connpool.Pool
	dispatcher *events.Dispatcher
	mocks      *mock.Registry
	defaults   domain.RequestOptions
	profiler   *http.Server

	mu     sync.Mutex
	closed bool
}

// New builds a Client from opts. With no options it uses spec.md's
// zero-configuration defaults: a 30s timeout, no retries, connection
// pooling and DNS caching enabled.
func New(opts ...Option) *Client {
	state := newBuildState()
	for _, opt := range opts {
		opt(state)
	}

	dispatcher := events.New(state.opts.Logger)
	reg := mock.New(state.mockStrict)
	dns := dnscache.New(state.opts.Pool.DNSCacheTTL)

	pool := connpool.New(state.opts.Pool, transportFactory(state.opts, dns))

	chain := middleware.New(state.middlewares...)
	ex := engine.New(dns, pool, retry.New(), chain.Run, reg)

	state.opts.Events = dispatcher

	c := &Client{
		executor:   ex,
		dns:        dns,
		pool:       pool,
		dispatcher: dispatcher,
		mocks:      reg,
		defaults:   state.opts,
	}

	if state.opts.Debug.CaptureMemory {
		c.profiler = profiler.Start(state.profilerAddr)
	}

	return c
}

// transportFactory builds the connpool.TransportFactory closure used for
// every Origin this Client ever talks to. dns is accepted for symmetry
// with the engine's own resolution step; net/http's dialer performs its
// own lookups downstream of it regardless.
func transportFactory(opts domain.RequestOptions, dns *dnscache.Cache) connpool.TransportFactory {
	return func(origin domain.Origin) (ports.Transport, error) {
		var tlsCfg *domain.TLSConfig
		if opts.Cert != nil {
			tlsCfg = opts.Cert
		}
		return transport.New(transport.Config{
			ConnectTimeout:   opts.ConnectTimeout,
			KeepAliveTimeout: opts.Pool.KeepAliveTimeout,
			MaxIdleConns:     opts.Pool.MaxIdlePerHost,
			HTTP2Enabled:     opts.HTTP2.Enabled,
			Redirects:        opts.Redirects,
			TLS:              tlsCfg,
			ProxyURL:         proxyFor(origin, opts.Proxy),
		})
	}
}

func proxyFor(origin domain.Origin, proxies map[string]string) *url.URL {
	raw, ok := proxies[origin.Scheme]
	if !ok || raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	return u
}

// Mocks returns the Client's Mock Interceptor registry, used to register
// canned responses (client.Mocks().When(...).Respond(...)) and to assert
// on recorded requests in tests.
func (c *Client) Mocks() *mock.Registry {
	return c.mocks
}

// Events returns the Client's Event Dispatcher, used to register
// listeners (client.Events().On(domain.EventRequestRetrying, 0, fn)).
func (c *Client) Events() *events.Dispatcher {
	return c.dispatcher
}

// PoolStats reports cumulative Connection Pool counters.
func (c *Client) PoolStats() ports.PoolStats {
	return c.pool.Stats()
}

// DNSStats reports cumulative DNS Cache counters.
func (c *Client) DNSStats() ports.DNSStats {
	return c.dns.Stats()
}

// Close releases every idle pooled connection and stops the optional
// profiler server, if one was started. Requests in flight are
// unaffected; they close their connection on release as usual.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	c.pool.CloseAll()
	if c.profiler != nil {
		return c.profiler.Close()
	}
	return nil
}

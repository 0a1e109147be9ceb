package fetch

import (
	"net/textproto"
	"time"

	"github.com/thavarshan/fetch-go/internal/core/domain"
	"github.com/thavarshan/fetch-go/internal/core/ports"
)

// buildState accumulates every Option before New assembles the concrete
// adapters; it is discarded once the Client exists.
type buildState struct {
	opts        domain.RequestOptions
	middlewares []ports.Middleware
	profilerAddr string
	mockStrict  bool
	wantProfiler bool
}

func newBuildState() *buildState {
	return &buildState{opts: domain.DefaultRequestOptions()}
}

// Option configures a Client at construction time.
type Option func(*buildState)

// WithBaseURI sets the base URI relative request paths resolve against.
func WithBaseURI(uri string) Option {
	return func(s *buildState) { s.opts.BaseURI = uri }
}

// WithTimeout sets the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *buildState) { s.opts.Timeout = d }
}

// WithConnectTimeout sets the default dial timeout.
func WithConnectTimeout(d time.Duration) Option {
	return func(s *buildState) { s.opts.ConnectTimeout = d }
}

// WithHeader adds a header sent with every request from this Client.
func WithHeader(key string, values ...string) Option {
	return func(s *buildState) {
		if s.opts.Headers == nil {
			s.opts.Headers = make(domain.Header)
		}
		s.opts.Headers[textproto.CanonicalMIMEHeaderKey(key)] = values
	}
}

// WithRetry sets the maximum attempt count and base backoff delay; the
// retryable status/exception sets stay at their package defaults unless
// overridden with WithRetryStatusCodes/WithRetryExceptions.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(s *buildState) {
		s.opts.Retry.MaxAttempts = maxAttempts
		s.opts.Retry.BaseDelay = baseDelay
	}
}

// WithJitter sets the random jitter applied to each backoff delay, as a
// fraction of that delay: 0.1 moves each delay by up to ±5%.
func WithJitter(percent float64) Option {
	return func(s *buildState) { s.opts.Retry.JitterPercent = percent }
}

// WithRetryStatusCodes overrides the set of response status codes that
// trigger a retry.
func WithRetryStatusCodes(codes ...int) Option {
	return func(s *buildState) {
		set := make(map[int]struct{}, len(codes))
		for _, c := range codes {
			set[c] = struct{}{}
		}
		s.opts.Retry.RetryStatusCodes = set
	}
}

// WithRetryExceptions overrides the set of domain.ErrorKind values that
// trigger a retry.
func WithRetryExceptions(kinds ...domain.ErrorKind) Option {
	return func(s *buildState) {
		set := make(map[domain.ErrorKind]struct{}, len(kinds))
		for _, k := range kinds {
			set[k] = struct{}{}
		}
		s.opts.Retry.RetryExceptions = set
	}
}

// WithPool overrides the Connection Pool / DNS Cache configuration.
func WithPool(cfg domain.PoolConfig) Option {
	return func(s *buildState) { s.opts.Pool = cfg }
}

// WithHTTP2 overrides HTTP/2 negotiation behaviour.
func WithHTTP2(cfg domain.HTTP2Config) Option {
	return func(s *buildState) { s.opts.HTTP2 = cfg }
}

// WithRedirects overrides redirect-following behaviour.
func WithRedirects(cfg domain.RedirectPolicy) Option {
	return func(s *buildState) { s.opts.Redirects = cfg }
}

// WithProxy routes requests for scheme (e.g. "http", "https") through
// proxyURL.
func WithProxy(scheme, proxyURL string) Option {
	return func(s *buildState) {
		if s.opts.Proxy == nil {
			s.opts.Proxy = make(map[string]string)
		}
		s.opts.Proxy[scheme] = proxyURL
	}
}

// WithBasicAuth attaches HTTP basic credentials to every request.
func WithBasicAuth(user, pass string) Option {
	return func(s *buildState) { s.opts.Auth = &domain.Auth{User: user, Pass: pass} }
}

// WithBearerToken attaches a bearer token to every request.
func WithBearerToken(token string) Option {
	return func(s *buildState) { s.opts.Auth = &domain.Auth{Token: token} }
}

// WithTLS attaches client certificate material.
func WithTLS(cfg *domain.TLSConfig) Option {
	return func(s *buildState) { s.opts.Cert = cfg }
}

// WithDebug overrides the engine's observability hooks, including whether
// WithProfiler's pprof server is actually started.
func WithDebug(cfg domain.DebugConfig) Option {
	return func(s *buildState) { s.opts.Debug = cfg }
}

// WithProfiler starts a net/http/pprof server on addr (or
// profiler.DefaultAddress if empty) once the Client's Debug.CaptureMemory
// is set, and stops it on Client.Close.
func WithProfiler(addr string) Option {
	return func(s *buildState) {
		s.wantProfiler = true
		s.profilerAddr = addr
	}
}

// WithCache installs caller-supplied before-request/after-response hooks;
// the engine itself implements no RFC 7234 caching (spec non-goal).
func WithCache(hooks domain.CacheHooks) Option {
	return func(s *buildState) { s.opts.Cache = hooks }
}

// WithErrorPredicate overrides which responses the executor treats as
// failures for retry/event purposes; by default only statuses in the retry
// status set count as failures.
func WithErrorPredicate(fn func(domain.Response) bool) Option {
	return func(s *buildState) { s.opts.IsErrorPredicate = fn }
}

// WithLogger sets the structured logger the engine reports attempts,
// retries and failures to. Any logger.StyledLogger satisfies
// domain.Logger, and so does *slog.Logger directly.
func WithLogger(l domain.Logger) Option {
	return func(s *buildState) { s.opts.Logger = l }
}

// WithMiddleware appends mw to the Client's Middleware Chain, in the
// order supplied: the first one sees the request first.
func WithMiddleware(mw ...ports.Middleware) Option {
	return func(s *buildState) { s.middlewares = append(s.middlewares, mw...) }
}

// WithMockStrict makes the Client reject any request that matches no
// registered mock rule, rather than letting it fall through to the
// network.
func WithMockStrict() Option {
	return func(s *buildState) { s.mockStrict = true }
}

// WithStream marks requests as streaming by default (spec.md §6); the
// engine still buffers the full body, Stream is advisory metadata for
// middleware/caller use.
func WithStream() Option {
	return func(s *buildState) { s.opts.Stream = true }
}

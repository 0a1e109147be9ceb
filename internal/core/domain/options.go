package domain

import (
	"context"
	"time"
)

// RetryConfig controls the Retry Policy for one logical call.
type RetryConfig struct {
	RetryStatusCodes map[int]struct{}
	RetryExceptions  map[ErrorKind]struct{}
	MaxAttempts      int
	BaseDelay        time.Duration
	JitterPercent    float64
}

// DefaultRetryableStatusCodes is the canonical default retryable status
// set, resolving the Open Question left by the spec (see SPEC_FULL.md §6).
func DefaultRetryableStatusCodes() map[int]struct{} {
	return map[int]struct{}{
		408: {}, 429: {}, 500: {}, 502: {}, 503: {}, 504: {},
	}
}

// DefaultRetryableExceptions is the canonical default retryable error-kind
// set.
func DefaultRetryableExceptions() map[ErrorKind]struct{} {
	return map[ErrorKind]struct{}{
		ErrNetwork: {}, ErrTimeout: {},
	}
}

// DefaultRetryConfig returns a RetryConfig equivalent to "no retries".
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:      1,
		BaseDelay:        100 * time.Millisecond,
		RetryStatusCodes: DefaultRetryableStatusCodes(),
		RetryExceptions:  DefaultRetryableExceptions(),
	}
}

// PoolConfig controls the Connection Pool and DNS Cache.
type PoolConfig struct {
	Enabled                bool
	MaxConnections         int
	MaxPerHost             int
	MaxIdlePerHost         int
	KeepAliveTimeout       time.Duration
	ConnectionTimeout      time.Duration
	DNSCacheTTL            time.Duration
	WarmupConnections      int
	EnableConnectionWarmup bool
}

// DefaultPoolConfig returns the engine's default pooling policy.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		Enabled:           true,
		MaxConnections:    100,
		MaxPerHost:        10,
		MaxIdlePerHost:    5,
		KeepAliveTimeout:  90 * time.Second,
		ConnectionTimeout: 10 * time.Second,
		DNSCacheTTL:       5 * time.Minute,
	}
}

// HTTP2Config controls optional HTTP/2 negotiation.
type HTTP2Config struct {
	Enabled              bool
	MaxConcurrentStreams int
	EnableServerPush     bool
}

// RedirectPolicy controls whether/how the transport follows redirects.
type RedirectPolicy struct {
	Follow  bool
	Max     int
	Strict  bool
	Referer bool
}

// DefaultRedirectPolicy follows up to 10 redirects, matching net/http's own
// default ceiling.
func DefaultRedirectPolicy() RedirectPolicy {
	return RedirectPolicy{Follow: true, Max: 10}
}

// DebugConfig controls the engine's observability hooks.
type DebugConfig struct {
	Enabled       bool
	LogLevel      string
	CaptureTiming bool
	CaptureMemory bool
}

// CacheHooks lets a caller-supplied cache layer observe request/response
// pairs without the engine implementing RFC 7234 itself (see spec.md §1
// non-goals and SPEC_FULL.md §9).
type CacheHooks struct {
	BeforeRequest func(ctx context.Context, req Request) (*Response, bool)
	AfterResponse func(ctx context.Context, req Request, resp Response)
}

// Auth carries either basic credentials or a bearer token.
type Auth struct {
	User  string
	Pass  string
	Token string
}

// TLSConfig carries client certificate material.
type TLSConfig struct {
	CertPath string
	KeyPath  string
	KeyPass  string
}

// RequestOptions is consumed once per logical call; every field is
// optional and defaults are as specified in spec.md §6.
type RequestOptions struct {
	Headers          Header
	Query            map[string][]string
	Proxy            map[string]string
	Cookies          any // bool, or an opaque jar handle
	Auth             *Auth
	Cert             *TLSConfig
	BaseURI          string
	Events           EventPublisher
	Logger           Logger
	IsErrorPredicate func(Response) bool
	Retry            RetryConfig
	Pool             PoolConfig
	HTTP2            HTTP2Config
	Redirects        RedirectPolicy
	Debug            DebugConfig
	Cache            CacheHooks
	Timeout          time.Duration
	ConnectTimeout   time.Duration
	Stream           bool
}

// DefaultRequestOptions returns the engine's zero-configuration defaults.
func DefaultRequestOptions() RequestOptions {
	return RequestOptions{
		Timeout:        30 * time.Second,
		ConnectTimeout: 10 * time.Second,
		Retry:          DefaultRetryConfig(),
		Pool:           DefaultPoolConfig(),
		Redirects:      DefaultRedirectPolicy(),
	}
}

// EventPublisher is the subset of the Event Dispatcher the engine needs;
// defined here (not in ports) to avoid an import cycle between domain and
// the adapters that both produce and consume Event values.
type EventPublisher interface {
	Publish(Event)
}

// Logger is the minimal structured-logging surface the engine depends on,
// satisfied by any internal/logger.StyledLogger and directly by
// *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

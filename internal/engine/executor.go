// Package engine implements the Request Executor (spec.md §4.7): the
// single-call orchestration that ties the DNS Cache, Connection Pool,
// Retry Policy, Event Dispatcher, Middleware Chain and Mock Interceptor
// together into one logical request/response exchange, grounded on
// internal/adapter/proxy/core.ExecuteWithRetry's attempt loop.
package engine

import (
	"time"

	"github.com/thavarshan/fetch-go/internal/core/domain"
	"github.com/thavarshan/fetch-go/internal/core/ports"
	"github.com/thavarshan/fetch-go/internal/util"

	"context"
)

// latencyRecorder is satisfied by connpool.Pool; asserted optionally so the
// executor can feed per-attempt latency into the pool's AverageLatency stat
// without the ports.ConnectionPool interface needing to carry it.
type latencyRecorder interface {
	RecordLatency(time.Duration)
}

// MiddlewareRunner runs the caller-configured chain around one transport round
// trip; Executor depends only on this function shape, not on the concrete
// middleware.Chain type, so tests can stub it trivially.
type MiddlewareRunner func(ctx context.Context, req domain.Request, next ports.MiddlewareNext) (domain.Response, error)

// Executor is the concrete Request Executor.
type Executor struct {
	DNS        ports.DNSResolver
	Pool       ports.ConnectionPool
	Retry      ports.RetryPolicy
	Middleware MiddlewareRunner
	Mock       ports.MockInterceptor
}

// New builds an Executor from its collaborators. mw may be nil for an
// empty chain (the terminal round trip runs directly); mockIntercept may be
// nil to disable mocking entirely.
func New(dns ports.DNSResolver, pool ports.ConnectionPool, retry ports.RetryPolicy, mw MiddlewareRunner, mockIntercept ports.MockInterceptor) *Executor {
	if mw == nil {
		mw = func(ctx context.Context, req domain.Request, next ports.MiddlewareNext) (domain.Response, error) {
			return next(ctx, req)
		}
	}
	return &Executor{DNS: dns, Pool: pool, Retry: retry, Middleware: mw, Mock: mockIntercept}
}

// Execute runs req to completion, including retries, and returns the final
// Response; when it gives up it also returns a *domain.RequestError saying
// why, alongside the last attempt's Response.
func (e *Executor) Execute(ctx context.Context, req domain.Request, opts domain.RequestOptions) (domain.Response, error) {
	events := opts.Events
	if events == nil {
		events = noopPublisher{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	correlationID := util.GenerateCorrelationID()
	maxAttempts := opts.Retry.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	if opts.Cache.BeforeRequest != nil {
		if cached, ok := opts.Cache.BeforeRequest(ctx, req); ok {
			events.Publish(domain.Event{
				Timestamp:     time.Now(),
				Name:          domain.EventResponseReceived,
				Request:       &req,
				Response:      cached,
				CorrelationID: correlationID,
				Attempt:       1,
				MaxAttempts:   maxAttempts,
			})
			return *cached, nil
		}
	}

	start := time.Now()
	var lastResp domain.Response
	var lastErr *domain.RequestError

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		events.Publish(domain.Event{
			Timestamp:     time.Now(),
			Name:          domain.EventRequestSending,
			Request:       &req,
			CorrelationID: correlationID,
			Attempt:       attempt,
			MaxAttempts:   maxAttempts,
			ElapsedSecs:   time.Since(start).Seconds(),
		})

		attemptStart := time.Now()
		resp, err := e.attemptOnce(ctx, req, opts)
		duration := time.Since(attemptStart)

		if err == nil && isErrorResponse(resp, opts.Retry.RetryStatusCodes, opts.IsErrorPredicate) {
			err = &domain.RequestError{
				Kind:          domain.ErrHTTPStatus,
				Response:      &resp,
				Request:       &req,
				CorrelationID: correlationID,
				Attempt:       attempt,
			}
		}

		if err == nil {
			events.Publish(domain.Event{
				Timestamp:     time.Now(),
				Name:          domain.EventResponseReceived,
				Request:       &req,
				Response:      &resp,
				CorrelationID: correlationID,
				Attempt:       attempt,
				MaxAttempts:   maxAttempts,
				DurationSecs:  duration.Seconds(),
				ElapsedSecs:   time.Since(start).Seconds(),
			})
			if opts.Cache.AfterResponse != nil {
				opts.Cache.AfterResponse(ctx, req, resp)
			}
			return resp, nil
		}

		reqErr, ok := err.(*domain.RequestError)
		if !ok {
			reqErr = domain.NewRequestError(domain.ErrNetwork, err, &req, nil, correlationID, attempt)
		}
		reqErr.CorrelationID = correlationID
		reqErr.Attempt = attempt
		lastResp, lastErr = resp, reqErr

		events.Publish(domain.Event{
			Timestamp:     time.Now(),
			Name:          domain.EventErrorOccurred,
			Request:       &req,
			Response:      reqErr.Response,
			Err:           reqErr,
			CorrelationID: correlationID,
			Attempt:       attempt,
			MaxAttempts:   maxAttempts,
			DurationSecs:  duration.Seconds(),
			ElapsedSecs:   time.Since(start).Seconds(),
		})
		logger.Warn("request attempt failed", "correlation_id", correlationID, "attempt", attempt, "error", reqErr)

		outcome := ports.RetryOutcome{Err: reqErr}
		if reqErr.Response != nil {
			outcome.Response = reqErr.Response
		}
		if !e.Retry.ShouldRetry(outcome, attempt, opts.Retry) {
			break
		}

		delay := e.Retry.DelayMs(attempt, opts.Retry)
		events.Publish(domain.Event{
			Timestamp:     time.Now(),
			Name:          domain.EventRequestRetrying,
			Request:       &req,
			CorrelationID: correlationID,
			Attempt:       attempt + 1,
			MaxAttempts:   maxAttempts,
			DelayMs:       delay,
			ElapsedSecs:   time.Since(start).Seconds(),
		})

		select {
		case <-ctx.Done():
			return domain.Response{}, domain.NewRequestError(domain.ErrCancelled, ctx.Err(), &req, nil, correlationID, attempt)
		case <-time.After(time.Duration(delay) * time.Millisecond):
		}
	}

	if lastErr != nil {
		return lastResp, lastErr
	}
	return lastResp, nil
}

// attemptOnce consults the mock interceptor and, when it gives no outcome,
// performs one DNS resolution, connection borrow, middleware chain run and
// release — the unit of work a single retry attempt repeats.
func (e *Executor) attemptOnce(ctx context.Context, req domain.Request, opts domain.RequestOptions) (domain.Response, error) {
	if e.Mock != nil && e.Mock.Active() {
		resp, matched, err := e.Mock.Match(req)
		if err != nil {
			return domain.Response{}, domain.NewRequestError(domain.ErrMockUnmatched, err, &req, nil, "", 0)
		}
		if matched {
			return resp, nil
		}
	}

	origin, err := originOf(req.URI)
	if err != nil {
		return domain.Response{}, domain.NewRequestError(domain.ErrRequestMalformed, err, &req, nil, "", 0)
	}

	if e.DNS != nil {
		if _, err := e.DNS.Resolve(ctx, origin.Host); err != nil {
			return domain.Response{}, domain.NewRequestError(domain.ErrNetwork, err, &req, nil, "", 0)
		}
	}

	pc, err := e.Pool.Get(ctx, origin)
	if err != nil {
		return domain.Response{}, domain.NewRequestError(domain.ErrNetwork, err, &req, nil, "", 0)
	}

	timeout := opts.Timeout

	attemptStart := time.Now()
	resp, err := e.Middleware(ctx, req, func(ctx context.Context, req domain.Request) (domain.Response, error) {
		return pc.Transport.RoundTrip(ctx, req, timeout)
	})
	latency := time.Since(attemptStart)

	if lr, ok := e.Pool.(latencyRecorder); ok {
		lr.RecordLatency(latency)
	}

	if err != nil {
		e.Pool.Close(pc)
		kind := domain.ErrNetwork
		if ctx.Err() != nil {
			kind = domain.ErrTimeout
		}
		return domain.Response{}, domain.NewRequestError(kind, err, &req, nil, "", 0)
	}

	e.Pool.Release(pc)

	return resp, nil
}

// isErrorResponse applies the caller's error predicate if supplied.
// Otherwise, per spec.md §7, the "http-status" error kind is scoped to
// statuses in the retry-status set: a 4xx/5xx the caller hasn't opted into
// retrying is a plain response, not an error (spec.md §4.7 step 5).
func isErrorResponse(resp domain.Response, retryStatusCodes map[int]struct{}, predicate func(domain.Response) bool) bool {
	if predicate != nil {
		return predicate(resp)
	}
	_, retryable := retryStatusCodes[resp.StatusCode]
	return retryable
}

// Package middleware composes the engine's Middleware Chain (spec.md §4.5):
// an onion of request/response interceptors wrapped around the transport
// round trip, in the handler-wrapping style internal/app/middleware uses
// for net/http handlers.
package middleware

import (
	"context"

	"github.com/thavarshan/fetch-go/internal/core/domain"
	"github.com/thavarshan/fetch-go/internal/core/ports"
)

// Chain composes a fixed, ordered list of Middleware around a terminal
// round-trip function.
type Chain struct {
	stack []ports.Middleware
}

// New returns a Chain running mw in the given order: the first entry sees
// the request first and the final response last, the classic onion.
func New(mw ...ports.Middleware) *Chain {
	return &Chain{stack: mw}
}

// Run invokes the chain, terminating in final once every middleware has
// called its next.
func (c *Chain) Run(ctx context.Context, req domain.Request, final ports.MiddlewareNext) (domain.Response, error) {
	next := final
	for i := len(c.stack) - 1; i >= 0; i-- {
		mw := c.stack[i]
		captured := next
		next = func(ctx context.Context, req domain.Request) (domain.Response, error) {
			return mw(ctx, req, captured)
		}
	}
	return next(ctx, req)
}

// Logging returns a Middleware that writes a "request started" line to
// logger before the wrapped call and a "request completed" or "request
// failed" line after it, mirroring EnhancedLoggingMiddleware's before/after
// structure. It publishes no events.
func Logging(logger domain.Logger) ports.Middleware {
	return func(ctx context.Context, req domain.Request, next ports.MiddlewareNext) (domain.Response, error) {
		if logger == nil {
			return next(ctx, req)
		}
		logger.Debug("request started", "method", string(req.Method), "uri", req.URI)
		resp, err := next(ctx, req)
		if err != nil {
			logger.Warn("request failed", "method", string(req.Method), "uri", req.URI, "error", err)
			return resp, err
		}
		logger.Debug("request completed", "method", string(req.Method), "uri", req.URI, "status", resp.StatusCode)
		return resp, nil
	}
}

// Header returns a Middleware that adds a fixed header to every outgoing
// request, useful for a caller-wide User-Agent or API key.
func Header(key, value string) ports.Middleware {
	return func(ctx context.Context, req domain.Request, next ports.MiddlewareNext) (domain.Response, error) {
		return next(ctx, req.WithAddedHeader(key, value))
	}
}

package fetch

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/thavarshan/fetch-go/internal/core/domain"
	"github.com/thavarshan/fetch-go/internal/promise"
	"github.com/thavarshan/fetch-go/internal/util"
)

// RequestBuilder accumulates one logical call's method, URI, headers,
// body and per-request option overrides before Send/SendAsync dispatches
// it through the Client's Request Executor.
type RequestBuilder struct {
	client *Client
	req    domain.Request
	opts   domain.RequestOptions
	query  url.Values
	err    error
}

func (c *Client) newBuilder(method domain.Method, uri string) *RequestBuilder {
	req := domain.NewRequest(method, uri)
	for key, values := range c.defaults.Headers {
		req = req.WithHeader(key, values...)
	}

	b := &RequestBuilder{client: c, req: req, opts: c.defaults}
	for key, values := range c.defaults.Query {
		for _, v := range values {
			b.Query(key, v)
		}
	}
	return b
}

// Get starts a GET request builder for uri (absolute, or relative to the
// Client's base URI).
func (c *Client) Get(uri string) *RequestBuilder { return c.newBuilder(domain.MethodGet, uri) }

// Post starts a POST request builder.
func (c *Client) Post(uri string) *RequestBuilder { return c.newBuilder(domain.MethodPost, uri) }

// Put starts a PUT request builder.
func (c *Client) Put(uri string) *RequestBuilder { return c.newBuilder(domain.MethodPut, uri) }

// Patch starts a PATCH request builder.
func (c *Client) Patch(uri string) *RequestBuilder { return c.newBuilder(domain.MethodPatch, uri) }

// Delete starts a DELETE request builder.
func (c *Client) Delete(uri string) *RequestBuilder { return c.newBuilder(domain.MethodDelete, uri) }

// Head starts a HEAD request builder.
func (c *Client) Head(uri string) *RequestBuilder { return c.newBuilder(domain.MethodHead, uri) }

// Options starts an OPTIONS request builder.
func (c *Client) Options(uri string) *RequestBuilder { return c.newBuilder(domain.MethodOptions, uri) }

// Request starts a request builder for an arbitrary method, for callers
// that select the verb dynamically.
func (c *Client) Request(method domain.Method, uri string) *RequestBuilder {
	return c.newBuilder(method, uri)
}

// Header sets key on the request, replacing any existing values.
func (b *RequestBuilder) Header(key string, values ...string) *RequestBuilder {
	b.req = b.req.WithHeader(key, values...)
	return b
}

// Query adds key=value to the request's query string. Repeated calls with
// the same key append additional values.
func (b *RequestBuilder) Query(key, value string) *RequestBuilder {
	if b.query == nil {
		b.query = url.Values{}
	}
	b.query.Add(key, value)
	return b
}

// JSON marshals v and sets it as the request body with
// Content-Type: application/json.
func (b *RequestBuilder) JSON(v any) *RequestBuilder {
	raw, err := json.Marshal(v)
	if err != nil {
		b.err = err
		return b
	}
	b.req = b.req.WithBody(domain.Body{Kind: domain.BodyJSON, Raw: raw})
	return b
}

// Form sets an application/x-www-form-urlencoded body.
func (b *RequestBuilder) Form(pairs domain.FormPairs) *RequestBuilder {
	b.req = b.req.WithBody(domain.FormBody(pairs))
	return b
}

// Multipart sets a multipart/form-data body.
func (b *RequestBuilder) Multipart(parts []domain.MultipartPart) *RequestBuilder {
	b.req = b.req.WithBody(domain.MultipartBody(parts))
	return b
}

// RawBody sets an unencoded byte-slice body; no Content-Type is inferred.
func (b *RequestBuilder) RawBody(data []byte) *RequestBuilder {
	b.req = b.req.WithBody(domain.RawBody(data))
	return b
}

// Timeout overrides this request's timeout.
func (b *RequestBuilder) Timeout(d time.Duration) *RequestBuilder {
	b.opts.Timeout = d
	return b
}

// Retry overrides this request's max attempts and base backoff delay.
func (b *RequestBuilder) Retry(maxAttempts int, baseDelay time.Duration) *RequestBuilder {
	b.opts.Retry.MaxAttempts = maxAttempts
	b.opts.Retry.BaseDelay = baseDelay
	return b
}

// BaseURI overrides the base URI this request's relative URI resolves
// against.
func (b *RequestBuilder) BaseURI(uri string) *RequestBuilder {
	b.opts.BaseURI = uri
	return b
}

// BasicAuth overrides this request's credentials with HTTP basic auth.
func (b *RequestBuilder) BasicAuth(user, pass string) *RequestBuilder {
	b.opts.Auth = &domain.Auth{User: user, Pass: pass}
	return b
}

// BearerToken overrides this request's credentials with a bearer token.
func (b *RequestBuilder) BearerToken(token string) *RequestBuilder {
	b.opts.Auth = &domain.Auth{Token: token}
	return b
}

// resolve validates and finalises the request's URI (base + path + query)
// per spec.md §6's URI validation rules.
func (b *RequestBuilder) resolve() error {
	raw := b.req.URI
	if strings.TrimSpace(raw) == "" || strings.ContainsAny(raw, " \t\n\r") {
		return &domain.ValidationError{Field: "uri", Reason: "must be non-empty and contain no whitespace"}
	}

	uri := raw
	if !isAbsoluteURI(raw) {
		if b.opts.BaseURI == "" {
			return &domain.ValidationError{Field: "uri", Reason: "relative URI requires a base URI"}
		}
		if !isAbsoluteURI(b.opts.BaseURI) {
			return &domain.ValidationError{Field: "base_uri", Reason: "must be absolute"}
		}
		uri = util.JoinURLPath(b.opts.BaseURI, raw)
	}

	if len(b.query) > 0 {
		sep := "?"
		if strings.Contains(uri, "?") {
			sep = "&"
		}
		uri = uri + sep + b.query.Encode()
	}

	b.req = b.req.WithURI(uri)

	if b.opts.Auth != nil && b.req.Headers.Get("Authorization") == "" {
		switch {
		case b.opts.Auth.Token != "":
			b.req = b.req.WithHeader("Authorization", "Bearer "+b.opts.Auth.Token)
		case b.opts.Auth.User != "" || b.opts.Auth.Pass != "":
			creds := base64.StdEncoding.EncodeToString([]byte(b.opts.Auth.User + ":" + b.opts.Auth.Pass))
			b.req = b.req.WithHeader("Authorization", "Basic "+creds)
		}
	}

	return nil
}

func isAbsoluteURI(uri string) bool {
	i := strings.Index(uri, "://")
	return i > 0
}

// Send executes the request synchronously and returns its Response, or a
// *domain.RequestError (or *domain.ValidationError for a malformed URI)
// describing why it failed.
func (b *RequestBuilder) Send(ctx context.Context) (domain.Response, error) {
	if b.err != nil {
		return domain.Response{}, b.err
	}
	if err := b.resolve(); err != nil {
		return domain.Response{}, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return b.client.executor.Execute(ctx, b.req, b.opts)
}

// SendAsync starts the request on its own goroutine and returns a Promise
// for its Response, per the Promise Adapter (spec.md §4.8).
func (b *RequestBuilder) SendAsync(ctx context.Context) *promise.Promise[domain.Response] {
	return promise.New(func() (domain.Response, error) {
		return b.Send(ctx)
	})
}

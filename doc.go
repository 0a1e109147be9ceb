// Package fetch is an ergonomic HTTP client engine: synchronous and
// promise-style async execution over a pooled, keep-alive transport, with
// retry-with-backoff, DNS caching, a pluggable event/middleware pipeline
// and a deterministic mock/record/replay facility for tests.
//
// A Client is built once via New and configured with Option values; each
// call then starts from a fluent per-request builder:
//
//	client := fetch.New(
//		fetch.WithBaseURI("https://api.example.com"),
//		fetch.WithRetry(3, 100*time.Millisecond),
//	)
//	resp, err := client.Get("/users/42").Send(ctx)
//
// Async calls return a *promise.Promise instead of blocking:
//
//	p := client.Post("/users").JSON(payload).SendAsync(ctx)
//	resp, err := p.Await()
package fetch

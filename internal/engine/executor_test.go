package engine

import (
	"context"
	"testing"
	"time"

	"github.com/thavarshan/fetch-go/internal/adapter/mock"
	"github.com/thavarshan/fetch-go/internal/adapter/retry"
	"github.com/thavarshan/fetch-go/internal/core/domain"
	"github.com/thavarshan/fetch-go/internal/core/ports"
)

type fakeTransport struct {
	statuses []int
	calls    int
}

func (f *fakeTransport) RoundTrip(ctx context.Context, req domain.Request, timeout time.Duration) (domain.Response, error) {
	status := f.statuses[f.calls]
	if f.calls < len(f.statuses)-1 {
		f.calls++
	}
	return domain.Response{StatusCode: status}, nil
}

func (f *fakeTransport) Close() error { return nil }

type fakePool struct {
	transport ports.Transport
}

func (p *fakePool) Get(ctx context.Context, origin domain.Origin) (*ports.PooledConnection, error) {
	return &ports.PooledConnection{
		Transport: p.transport,
		Conn:      &domain.Connection{Origin: origin},
	}, nil
}
func (p *fakePool) Release(*ports.PooledConnection) {}
func (p *fakePool) Close(*ports.PooledConnection)   {}
func (p *fakePool) CloseAll()                       {}
func (p *fakePool) Stats() ports.PoolStats          { return ports.PoolStats{} }

type fakeDNS struct{}

func (fakeDNS) Resolve(ctx context.Context, host string) ([]string, error) {
	return []string{"127.0.0.1"}, nil
}
func (fakeDNS) ResolveFirst(ctx context.Context, host string) (string, error) {
	return "127.0.0.1", nil
}
func (fakeDNS) Clear(string)          {}
func (fakeDNS) ClearAll()             {}
func (fakeDNS) Prune() int            { return 0 }
func (fakeDNS) SetTTL(time.Duration)  {}
func (fakeDNS) Stats() ports.DNSStats { return ports.DNSStats{} }

func testOpts(maxAttempts int) domain.RequestOptions {
	o := domain.DefaultRequestOptions()
	o.Retry.MaxAttempts = maxAttempts
	o.Retry.BaseDelay = time.Millisecond
	o.Timeout = time.Second
	return o
}

func TestExecuteSucceedsFirstAttempt(t *testing.T) {
	tr := &fakeTransport{statuses: []int{200}}
	e := New(fakeDNS{}, &fakePool{transport: tr}, retry.New(), nil, nil)

	resp, err := e.Execute(context.Background(), domain.NewRequest(domain.MethodGet, "https://example.com/"), testOpts(1))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if tr.calls != 0 {
		t.Errorf("expected exactly one call, got %d", tr.calls+1)
	}
}

func TestExecuteRetriesOnRetryableStatus(t *testing.T) {
	tr := &fakeTransport{statuses: []int{503, 503, 200}}
	e := New(fakeDNS{}, &fakePool{transport: tr}, retry.New(), nil, nil)

	resp, err := e.Execute(context.Background(), domain.NewRequest(domain.MethodGet, "https://example.com/"), testOpts(3))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("expected eventual 200, got %d", resp.StatusCode)
	}
}

func TestExecuteGivesUpAfterMaxAttempts(t *testing.T) {
	tr := &fakeTransport{statuses: []int{503, 503, 503}}
	e := New(fakeDNS{}, &fakePool{transport: tr}, retry.New(), nil, nil)

	resp, err := e.Execute(context.Background(), domain.NewRequest(domain.MethodGet, "https://example.com/"), testOpts(3))
	if err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
	if resp.StatusCode != 503 {
		t.Errorf("expected the last response to be surfaced, got %d", resp.StatusCode)
	}
}

func TestExecuteDoesNotRetryNonRetryableStatus(t *testing.T) {
	tr := &fakeTransport{statuses: []int{404, 200}}
	e := New(fakeDNS{}, &fakePool{transport: tr}, retry.New(), nil, nil)

	resp, err := e.Execute(context.Background(), domain.NewRequest(domain.MethodGet, "https://example.com/"), testOpts(3))
	if err != nil {
		t.Fatalf("expected a 404 outside the retry-status set to surface with no error, got %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	if tr.calls != 0 {
		t.Errorf("expected no retry for a non-retryable status, got %d extra calls", tr.calls)
	}
}

func TestExecuteAppliesCustomErrorPredicate(t *testing.T) {
	tr := &fakeTransport{statuses: []int{404, 200}}
	e := New(fakeDNS{}, &fakePool{transport: tr}, retry.New(), nil, nil)

	opts := testOpts(3)
	opts.IsErrorPredicate = func(resp domain.Response) bool { return resp.StatusCode == 404 }

	_, err := e.Execute(context.Background(), domain.NewRequest(domain.MethodGet, "https://example.com/"), opts)
	if err == nil {
		t.Fatal("expected the custom predicate to classify 404 as an error")
	}
}

func TestExecuteServesCachedResponseBeforeNetwork(t *testing.T) {
	tr := &fakeTransport{statuses: []int{200}}
	e := New(fakeDNS{}, &fakePool{transport: tr}, retry.New(), nil, nil)

	opts := testOpts(1)
	opts.Cache.BeforeRequest = func(ctx context.Context, req domain.Request) (*domain.Response, bool) {
		return &domain.Response{StatusCode: 304}, true
	}

	resp, err := e.Execute(context.Background(), domain.NewRequest(domain.MethodGet, "https://example.com/"), opts)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 304 {
		t.Errorf("expected the cached 304, got %d", resp.StatusCode)
	}
	if tr.calls != 0 {
		t.Errorf("expected no network call when the cache short-circuits, got %d extra calls", tr.calls)
	}
}

func TestExecuteNotifiesCacheAfterResponse(t *testing.T) {
	tr := &fakeTransport{statuses: []int{200}}
	e := New(fakeDNS{}, &fakePool{transport: tr}, retry.New(), nil, nil)

	var stored *domain.Response
	opts := testOpts(1)
	opts.Cache.AfterResponse = func(ctx context.Context, req domain.Request, resp domain.Response) {
		stored = &resp
	}

	_, err := e.Execute(context.Background(), domain.NewRequest(domain.MethodGet, "https://example.com/"), opts)
	if err != nil {
		t.Fatal(err)
	}
	if stored == nil || stored.StatusCode != 200 {
		t.Fatalf("expected AfterResponse to observe the 200, got %+v", stored)
	}
}

func TestExecuteConsultsMockBeforeNetwork(t *testing.T) {
	tr := &fakeTransport{statuses: []int{200}}
	reg := mock.New(false)
	reg.When(domain.MethodGet, "*").Respond(domain.Response{StatusCode: 201})

	e := New(fakeDNS{}, &fakePool{transport: tr}, retry.New(), nil, reg)

	resp, err := e.Execute(context.Background(), domain.NewRequest(domain.MethodGet, "https://example.com/"), testOpts(1))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 201 {
		t.Errorf("expected the mocked 201, got %d", resp.StatusCode)
	}
}

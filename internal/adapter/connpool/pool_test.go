package connpool

import (
	"context"
	"testing"
	"time"

	"github.com/thavarshan/fetch-go/internal/core/domain"
	"github.com/thavarshan/fetch-go/internal/core/ports"
)

type fakeTransport struct {
	closed bool
}

func (f *fakeTransport) RoundTrip(ctx context.Context, req domain.Request, timeout time.Duration) (domain.Response, error) {
	return domain.Response{StatusCode: 200}, nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

func testOrigin() domain.Origin {
	return domain.Origin{Scheme: "https", Host: "example.com", Port: "443"}
}

func TestGetConstructsThenReuses(t *testing.T) {
	var built int
	p := New(domain.PoolConfig{MaxIdlePerHost: 5, KeepAliveTimeout: time.Minute}, func(domain.Origin) (ports.Transport, error) {
		built++
		return &fakeTransport{}, nil
	})

	origin := testOrigin()
	pc, err := p.Get(context.Background(), origin)
	if err != nil {
		t.Fatal(err)
	}
	p.Release(pc)

	pc2, err := p.Get(context.Background(), origin)
	if err != nil {
		t.Fatal(err)
	}
	if built != 1 {
		t.Errorf("expected exactly 1 constructed transport, got %d", built)
	}
	if pc2.Transport != pc.Transport {
		t.Error("expected the released connection to be reused")
	}

	stats := p.Stats()
	if stats.ConnectionsCreated != 1 || stats.ConnectionsReused != 1 || stats.TotalRequests != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.ReuseRate() != 0.5 {
		t.Errorf("expected reuse rate 0.5, got %f", stats.ReuseRate())
	}
}

func TestGetDiscardsExpiredIdleConnection(t *testing.T) {
	var built int
	p := New(domain.PoolConfig{MaxIdlePerHost: 5, KeepAliveTimeout: time.Millisecond}, func(domain.Origin) (ports.Transport, error) {
		built++
		return &fakeTransport{}, nil
	})

	origin := testOrigin()
	pc, err := p.Get(context.Background(), origin)
	if err != nil {
		t.Fatal(err)
	}
	p.Release(pc)
	time.Sleep(5 * time.Millisecond)

	if _, err := p.Get(context.Background(), origin); err != nil {
		t.Fatal(err)
	}
	if built != 2 {
		t.Errorf("expected a fresh transport after keep-alive expiry, got %d builds", built)
	}
}

func TestReleaseBeyondMaxIdleClosesConnection(t *testing.T) {
	p := New(domain.PoolConfig{MaxIdlePerHost: 0, KeepAliveTimeout: time.Minute}, func(domain.Origin) (ports.Transport, error) {
		return &fakeTransport{}, nil
	})

	origin := testOrigin()
	pc, err := p.Get(context.Background(), origin)
	if err != nil {
		t.Fatal(err)
	}
	p.Release(pc)

	ft := pc.Transport.(*fakeTransport)
	if !ft.closed {
		t.Error("expected connection to be closed when maxIdle is 0")
	}
}

func TestGetBlocksUntilMaxPerHostFrees(t *testing.T) {
	p := New(domain.PoolConfig{MaxIdlePerHost: 5, MaxPerHost: 1, KeepAliveTimeout: time.Minute}, func(domain.Origin) (ports.Transport, error) {
		return &fakeTransport{}, nil
	})

	origin := testOrigin()
	pc, err := p.Get(context.Background(), origin)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := p.Get(ctx, origin); err == nil {
		t.Error("expected a second entry to block past MaxPerHost and time out")
	}

	p.Release(pc)
	if _, err := p.Get(context.Background(), origin); err != nil {
		t.Errorf("expected a slot to free up after release, got %v", err)
	}
}

func TestGetBlocksUntilMaxConnectionsFrees(t *testing.T) {
	p := New(domain.PoolConfig{MaxIdlePerHost: 5, MaxConnections: 1, KeepAliveTimeout: time.Minute}, func(domain.Origin) (ports.Transport, error) {
		return &fakeTransport{}, nil
	})

	origin := testOrigin()
	other := domain.Origin{Scheme: "https", Host: "other.example.com", Port: "443"}

	pc, err := p.Get(context.Background(), origin)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := p.Get(ctx, other); err == nil {
		t.Error("expected the global cap to block a second origin's entry")
	}

	p.Release(pc)
	if _, err := p.Get(context.Background(), other); err != nil {
		t.Errorf("expected the global slot to free up after release, got %v", err)
	}
}

func TestCloseAllClosesIdleConnections(t *testing.T) {
	p := New(domain.PoolConfig{MaxIdlePerHost: 5, KeepAliveTimeout: time.Minute}, func(domain.Origin) (ports.Transport, error) {
		return &fakeTransport{}, nil
	})

	origin := testOrigin()
	pc, err := p.Get(context.Background(), origin)
	if err != nil {
		t.Fatal(err)
	}
	p.Release(pc)
	p.CloseAll()

	ft := pc.Transport.(*fakeTransport)
	if !ft.closed {
		t.Error("expected CloseAll to close idle connections")
	}
}

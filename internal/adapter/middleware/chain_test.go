package middleware

import (
	"context"
	"testing"

	"github.com/thavarshan/fetch-go/internal/core/domain"
	"github.com/thavarshan/fetch-go/internal/core/ports"
)

func TestChainRunsInOrder(t *testing.T) {
	var order []string

	mkMiddleware := func(name string) ports.Middleware {
		return func(ctx context.Context, req domain.Request, next ports.MiddlewareNext) (domain.Response, error) {
			order = append(order, name+":before")
			resp, err := next(ctx, req)
			order = append(order, name+":after")
			return resp, err
		}
	}

	c := New(mkMiddleware("outer"), mkMiddleware("inner"))
	_, err := c.Run(context.Background(), domain.NewRequest(domain.MethodGet, "http://example.com"),
		func(ctx context.Context, req domain.Request) (domain.Response, error) {
			order = append(order, "terminal")
			return domain.Response{StatusCode: 200}, nil
		})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"outer:before", "inner:before", "terminal", "inner:after", "outer:after"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestHeaderMiddlewareAddsHeader(t *testing.T) {
	c := New(Header("X-Api-Key", "secret"))
	resp, err := c.Run(context.Background(), domain.NewRequest(domain.MethodGet, "http://example.com"),
		func(ctx context.Context, req domain.Request) (domain.Response, error) {
			if req.Headers.Get("X-Api-Key") != "secret" {
				t.Error("expected header to be injected before reaching the terminal")
			}
			return domain.Response{StatusCode: 200}, nil
		})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("unexpected status: %d", resp.StatusCode)
	}
}

func TestEmptyChainCallsTerminalDirectly(t *testing.T) {
	c := New()
	called := false
	_, err := c.Run(context.Background(), domain.NewRequest(domain.MethodGet, "http://example.com"),
		func(ctx context.Context, req domain.Request) (domain.Response, error) {
			called = true
			return domain.Response{}, nil
		})
	if err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("expected terminal to be called")
	}
}

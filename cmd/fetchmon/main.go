// Command fetchmon is a small terminal console that drives a fetch.Client
// against one URL and renders the Event Dispatcher's traffic live, alongside
// Connection Pool and DNS Cache stats. It exists to watch an engine's
// behaviour (attempts, retries, reuse) while developing against it, not as
// a load-testing tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	fetch "github.com/thavarshan/fetch-go"
	"github.com/thavarshan/fetch-go/internal/core/domain"
)

func main() {
	url := flag.String("url", "", "URL to request (required)")
	method := flag.String("method", "GET", "HTTP method")
	every := flag.Duration("every", 0, "repeat the request on this interval (0 = once)")
	retries := flag.Int("retries", 3, "max attempts per request")
	baseDelay := flag.Duration("base-delay", 100*time.Millisecond, "base retry backoff delay")
	flag.Parse()

	if *url == "" {
		fmt.Fprintln(os.Stderr, "fetchmon: -url is required")
		os.Exit(2)
	}

	client := fetch.New(fetch.WithRetry(*retries, *baseDelay))
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	method = normaliseMethod(method)
	driveTraffic(ctx, client, *method, *url, *every)

	m := newModel(client)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "fetchmon:", err)
		os.Exit(1)
	}
}

func normaliseMethod(m *string) *string {
	v := domain.Method(*m)
	switch v {
	case domain.MethodGet, domain.MethodHead, domain.MethodPost, domain.MethodPut,
		domain.MethodPatch, domain.MethodDelete, domain.MethodOptions:
		return m
	default:
		g := string(domain.MethodGet)
		return &g
	}
}

// driveTraffic fires the configured request once, then again on every tick
// if the caller asked for a repeat interval.
func driveTraffic(ctx context.Context, client *fetch.Client, method, url string, every time.Duration) {
	send := func() {
		client.Request(domain.Method(method), url).SendAsync(ctx)
	}
	send()

	if every <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				send()
			}
		}
	}()
}

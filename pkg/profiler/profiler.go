// Package profiler starts an optional net/http/pprof server, used when
// RequestOptions.Debug.CaptureMemory is set on a Client.
package profiler

import (
	"log"
	"net/http"
	"net/http/pprof"
	"time"
)

const DefaultAddress = "localhost:6060"

// Start launches a pprof HTTP server on addr (DefaultAddress if empty) on
// its own goroutine and returns the *http.Server so callers can shut it
// down via srv.Close().
func Start(addr string) *http.Server {
	if addr == "" {
		addr = DefaultAddress
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Println("profiler listening on", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Println("profiler stopped:", err)
		}
	}()

	return server
}

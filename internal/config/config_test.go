package config

import (
	"os"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Pool.Enabled {
		t.Error("expected pooling enabled by default")
	}
	if cfg.Pool.MaxConnections != 100 {
		t.Errorf("expected 100 max connections, got %d", cfg.Pool.MaxConnections)
	}
	if cfg.Pool.MaxPerHost != 10 {
		t.Errorf("expected 10 max per host, got %d", cfg.Pool.MaxPerHost)
	}
	if cfg.Pool.DNSCacheTTL != 5*time.Minute {
		t.Errorf("expected 5m DNS cache TTL, got %v", cfg.Pool.DNSCacheTTL)
	}

	if cfg.Retry.MaxAttempts != 1 {
		t.Errorf("expected 1 max attempt by default, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BaseDelay != 100*time.Millisecond {
		t.Errorf("expected 100ms base delay, got %v", cfg.Retry.BaseDelay)
	}

	if cfg.Timeout.Request != 30*time.Second {
		t.Errorf("expected 30s request timeout, got %v", cfg.Timeout.Request)
	}
	if cfg.Timeout.Connect != 10*time.Second {
		t.Errorf("expected 10s connect timeout, got %v", cfg.Timeout.Connect)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Logging.Level)
	}
	if !cfg.Logging.PrettyLogs {
		t.Error("expected pretty logs enabled by default")
	}
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Pool.MaxConnections != 100 {
		t.Errorf("expected default max connections 100, got %d", cfg.Pool.MaxConnections)
	}
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	testEnvVars := map[string]string{
		"FETCH_POOL_MAX_CONNECTIONS": "250",
		"FETCH_RETRY_MAX_ATTEMPTS":   "5",
		"FETCH_LOGGING_LEVEL":        "debug",
		"FETCH_TIMEOUT_REQUEST":      "15s",
	}

	for key, value := range testEnvVars {
		os.Setenv(key, value)
	}
	defer func() {
		for key := range testEnvVars {
			os.Unsetenv(key)
		}
	}()

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load with env vars failed: %v", err)
	}

	if cfg.Pool.MaxConnections != 250 {
		t.Errorf("expected max connections 250 from env var, got %d", cfg.Pool.MaxConnections)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("expected max attempts 5 from env var, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug from env var, got %s", cfg.Logging.Level)
	}
	if cfg.Timeout.Request != 15*time.Second {
		t.Errorf("expected request timeout 15s from env var, got %v", cfg.Timeout.Request)
	}
}

func TestLoadInvokesOnConfigChangeOnlyWhenProvided(t *testing.T) {
	if _, err := Load(nil); err != nil {
		t.Fatalf("Load(nil) should not require a callback: %v", err)
	}

	called := false
	if _, err := Load(func() { called = true }); err != nil {
		t.Fatalf("Load with callback failed: %v", err)
	}
	// No file changes happen during the test; the callback simply must not
	// be invoked eagerly.
	if called {
		t.Error("onConfigChange should not fire without an actual file change")
	}
}

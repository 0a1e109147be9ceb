package config

import "time"

// Config holds the process-wide defaults new Client instances fall back to
// when a caller doesn't override them via the fluent builder or
// per-request RequestOptions.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Pool    PoolConfig    `yaml:"pool"`
	Retry   RetryConfig   `yaml:"retry"`
	Timeout TimeoutConfig `yaml:"timeout"`
}

// PoolConfig mirrors domain.PoolConfig's fields so they can be sourced
// from YAML/env as process-wide defaults.
type PoolConfig struct {
	Enabled                bool          `yaml:"enabled"`
	MaxConnections         int           `yaml:"max_connections"`
	MaxPerHost             int           `yaml:"max_per_host"`
	MaxIdlePerHost         int           `yaml:"max_idle_per_host"`
	KeepAliveTimeout       time.Duration `yaml:"keep_alive_timeout"`
	ConnectionTimeout      time.Duration `yaml:"connection_timeout"`
	DNSCacheTTL            time.Duration `yaml:"dns_cache_ttl"`
	WarmupConnections      int           `yaml:"warmup_connections"`
	EnableConnectionWarmup bool          `yaml:"enable_connection_warmup"`
}

// RetryConfig mirrors domain.RetryConfig's scalar fields; the status-code
// and exception sets stay at their package defaults (they don't serialise
// cleanly to YAML scalars and aren't expected to vary per deployment).
type RetryConfig struct {
	MaxAttempts   int           `yaml:"max_attempts"`
	BaseDelay     time.Duration `yaml:"base_delay"`
	JitterPercent float64       `yaml:"jitter_percent"`
}

// TimeoutConfig holds the default request/connect timeouts a Client
// applies when RequestOptions leaves them unset.
type TimeoutConfig struct {
	Request time.Duration `yaml:"request"`
	Connect time.Duration `yaml:"connect"`
}

// LoggingConfig holds internal/logger.Config's fields as process config.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogDir     string `yaml:"log_dir"`
	Theme      string `yaml:"theme"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	FileOutput bool   `yaml:"file_output"`
	PrettyLogs bool   `yaml:"pretty_logs"`
}

package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	DefaultFileWriteDelay = 150 * time.Millisecond // small delay to ensure file write is complete
)

var (
	lastReload  time.Time
	reloadMutex sync.Mutex
)

// DefaultConfig returns a Config with the engine's zero-configuration
// defaults, matching domain.DefaultPoolConfig/DefaultRetryConfig.
func DefaultConfig() *Config {
	return &Config{
		Pool: PoolConfig{
			Enabled:           true,
			MaxConnections:    100,
			MaxPerHost:        10,
			MaxIdlePerHost:    5,
			KeepAliveTimeout:  90 * time.Second,
			ConnectionTimeout: 10 * time.Second,
			DNSCacheTTL:       5 * time.Minute,
		},
		Retry: RetryConfig{
			MaxAttempts: 1,
			BaseDelay:   100 * time.Millisecond,
		},
		Timeout: TimeoutConfig{
			Request: 30 * time.Second,
			Connect: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			PrettyLogs: true,
		},
	}
}

// Load loads Config from a config.yaml (searched in "." and "./config")
// overlaid with FETCH_* environment variables, falling back to
// DefaultConfig for anything left unset. If onConfigChange is non-nil it
// is invoked (debounced) whenever the config file changes on disk.
func Load(onConfigChange func()) (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetEnvPrefix("FETCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if configFile := os.Getenv("FETCH_CONFIG_FILE"); configFile != "" {
			viper.SetConfigFile(configFile)
			if err := viper.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
			}
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	viper.WatchConfig()

	if onConfigChange != nil {
		viper.OnConfigChange(func(e fsnotify.Event) {
			reloadMutex.Lock()
			defer reloadMutex.Unlock()

			now := time.Now()
			if now.Sub(lastReload) < 500*time.Millisecond {
				return // ignore rapid-fire duplicate events
			}
			lastReload = now

			// on some platforms this fires before the write finishes
			time.Sleep(DefaultFileWriteDelay)
			onConfigChange()
		})
	}
	return cfg, nil
}

// Package config loads the cache/task configuration surface from the
// environment. A .env file is honored for local development.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"github.com/openestate/searchcache/tasks"
)

type Config struct {
	// Shared cache store. CacheURL wins over the discrete fields.
	CacheURL      string `mapstructure:"CACHE_URL"`
	CacheHost     string `mapstructure:"CACHE_HOST"`
	CachePort     int    `mapstructure:"CACHE_PORT"`
	CachePassword string `mapstructure:"CACHE_PASSWORD"`
	CacheDB       int    `mapstructure:"CACHE_DB"`

	// Search cache behavior.
	PrewarmEnabled  bool          `mapstructure:"SEARCH_PREWARM_ENABLED"`
	VersionKey      string        `mapstructure:"SEARCH_VERSION_KEY"`
	SearchResultTTL time.Duration `mapstructure:"SEARCH_RESULT_TTL"`

	// Task queue. Broker/result backend default to the cache store's URL.
	BrokerURL         string        `mapstructure:"BROKER_URL"`
	ResultBackendURL  string        `mapstructure:"RESULT_BACKEND_URL"`
	TaskResultTTL     time.Duration `mapstructure:"TASK_RESULT_TTL"`
	WorkerConcurrency int           `mapstructure:"WORKER_CONCURRENCY"`

	// Periodic notification drain.
	DrainInterval time.Duration `mapstructure:"NOTIFY_DRAIN_INTERVAL"`
	DrainBatch    int           `mapstructure:"NOTIFY_DRAIN_BATCH"`
}

var keys = []string{
	"CACHE_URL", "CACHE_HOST", "CACHE_PORT", "CACHE_PASSWORD", "CACHE_DB",
	"SEARCH_PREWARM_ENABLED", "SEARCH_VERSION_KEY", "SEARCH_RESULT_TTL",
	"BROKER_URL", "RESULT_BACKEND_URL", "TASK_RESULT_TTL", "WORKER_CONCURRENCY",
	"NOTIFY_DRAIN_INTERVAL", "NOTIFY_DRAIN_BATCH",
}

// Load reads the environment (plus ./.env when present) and applies
// defaults and floors.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("config: load .env: %w", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	v.SetDefault("CACHE_HOST", "localhost")
	v.SetDefault("CACHE_PORT", 6379)
	v.SetDefault("SEARCH_PREWARM_ENABLED", true)
	v.SetDefault("NOTIFY_DRAIN_INTERVAL", "30s")
	v.SetDefault("NOTIFY_DRAIN_BATCH", 50)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if cfg.BrokerURL == "" {
		cfg.BrokerURL = cfg.RedisURL()
	}
	if cfg.ResultBackendURL == "" {
		cfg.ResultBackendURL = cfg.BrokerURL
	}
	if cfg.DrainInterval < tasks.MinInterval {
		cfg.DrainInterval = tasks.MinInterval
	}
	if cfg.DrainBatch < 1 {
		cfg.DrainBatch = 50
	}
	return &cfg, nil
}

// RedisURL resolves the cache store URL, synthesizing one from the discrete
// host/port/credential fields when CACHE_URL is unset.
func (c *Config) RedisURL() string {
	if c.CacheURL != "" {
		return c.CacheURL
	}
	var cred string
	if c.CachePassword != "" {
		cred = ":" + c.CachePassword + "@"
	}
	return fmt.Sprintf("redis://%s%s:%d/%d", cred, c.CacheHost, c.CachePort, c.CacheDB)
}

// RedisOptions parses the resolved cache URL into go-redis options.
func (c *Config) RedisOptions() (*goredis.Options, error) {
	return goredis.ParseURL(c.RedisURL())
}

// String renders the configuration with credentials masked.
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  CacheHost: %s\n", c.CacheHost))
	sb.WriteString(fmt.Sprintf("  CachePort: %d\n", c.CachePort))
	sb.WriteString(fmt.Sprintf("  CacheDB: %d\n", c.CacheDB))
	if c.CachePassword != "" {
		sb.WriteString("  CachePassword: ********\n")
	}
	if c.CacheURL != "" {
		sb.WriteString("  CacheURL: (set)\n")
	}
	sb.WriteString(fmt.Sprintf("  PrewarmEnabled: %v\n", c.PrewarmEnabled))
	sb.WriteString(fmt.Sprintf("  VersionKey: %s\n", c.VersionKey))
	sb.WriteString(fmt.Sprintf("  SearchResultTTL: %s\n", c.SearchResultTTL))
	sb.WriteString(fmt.Sprintf("  DrainInterval: %s\n", c.DrainInterval))
	sb.WriteString(fmt.Sprintf("  DrainBatch: %d\n", c.DrainBatch))
	sb.WriteString(fmt.Sprintf("  WorkerConcurrency: %d\n", c.WorkerConcurrency))
	return sb.String()
}

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/openestate/searchcache/tasks"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CacheHost != "localhost" || cfg.CachePort != 6379 {
		t.Fatalf("cache defaults = %s:%d", cfg.CacheHost, cfg.CachePort)
	}
	if !cfg.PrewarmEnabled {
		t.Fatal("prewarm must default on")
	}
	if cfg.DrainInterval != 30*time.Second || cfg.DrainBatch != 50 {
		t.Fatalf("drain defaults = %v/%d", cfg.DrainInterval, cfg.DrainBatch)
	}
	if cfg.BrokerURL != cfg.RedisURL() || cfg.ResultBackendURL != cfg.BrokerURL {
		t.Fatalf("broker defaults: broker=%q backend=%q", cfg.BrokerURL, cfg.ResultBackendURL)
	}
}

func TestLoadFloorsDrainInterval(t *testing.T) {
	t.Setenv("NOTIFY_DRAIN_INTERVAL", "1s")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DrainInterval != tasks.MinInterval {
		t.Fatalf("DrainInterval = %v, want floor %v", cfg.DrainInterval, tasks.MinInterval)
	}
}

func TestRedisURLSynthesis(t *testing.T) {
	c := Config{CacheHost: "cache.internal", CachePort: 6380, CacheDB: 2}
	if got := c.RedisURL(); got != "redis://cache.internal:6380/2" {
		t.Fatalf("RedisURL = %q", got)
	}
	c.CachePassword = "s3cret"
	if got := c.RedisURL(); got != "redis://:s3cret@cache.internal:6380/2" {
		t.Fatalf("RedisURL with password = %q", got)
	}
	// An explicit URL wins over the discrete fields.
	c.CacheURL = "redis://elsewhere:6379/0"
	if got := c.RedisURL(); got != "redis://elsewhere:6379/0" {
		t.Fatalf("RedisURL with CACHE_URL = %q", got)
	}
}

func TestRedisOptionsParse(t *testing.T) {
	c := Config{CacheURL: "redis://:pw@cache.internal:6380/3"}
	opts, err := c.RedisOptions()
	if err != nil {
		t.Fatalf("RedisOptions: %v", err)
	}
	if opts.Addr != "cache.internal:6380" || opts.DB != 3 || opts.Password != "pw" {
		t.Fatalf("opts = %+v", opts)
	}
}

func TestStringMasksPassword(t *testing.T) {
	c := Config{CacheHost: "localhost", CachePassword: "s3cret"}
	s := c.String()
	if strings.Contains(s, "s3cret") {
		t.Fatal("password leaked into String()")
	}
	if !strings.Contains(s, "********") {
		t.Fatalf("masked marker missing:\n%s", s)
	}
}

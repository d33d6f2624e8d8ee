package config

import (
	"testing"
	"time"
)

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	cfg := LoadRateLimitConfig()
	if !cfg.Enabled {
		t.Error("rate limiting should default to enabled")
	}
	if cfg.Capacity != 60 || cfg.RefillTokens != 1 {
		t.Errorf("defaults = capacity %d, refill %d", cfg.Capacity, cfg.RefillTokens)
	}
	if cfg.RefillInterval != time.Second {
		t.Errorf("refill interval = %s", cfg.RefillInterval)
	}
}

func TestLoadRateLimitConfigClamping(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-5")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "-1s")
	t.Setenv("RATE_LIMIT_TTL", "1ms")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 {
		t.Errorf("capacity = %d, want clamped to 1", cfg.Capacity)
	}
	if cfg.RefillTokens != 1 {
		t.Errorf("refill tokens = %d, want clamped to 1", cfg.RefillTokens)
	}
	if cfg.RefillInterval != time.Second {
		t.Errorf("refill interval = %s, want 1s", cfg.RefillInterval)
	}
	if cfg.TTL < 5*cfg.RefillInterval {
		t.Errorf("ttl = %s, want at least 5 refill intervals", cfg.TTL)
	}
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "45s")

	cfg := LoadCacheConfig()
	if !cfg.Methods["GET"] || !cfg.Methods["HEAD"] {
		t.Errorf("methods = %v, want GET and HEAD", cfg.Methods)
	}
	if cfg.Methods["POST"] {
		t.Error("POST must not be cacheable")
	}
	if cfg.TTL != 45*time.Second {
		t.Errorf("ttl = %s, want 45s", cfg.TTL)
	}
}

func TestParseMethods(t *testing.T) {
	m := parseMethods("")
	if len(m) != 0 {
		t.Errorf("empty spec = %v", m)
	}
	m = parseMethods("GET,,  post ")
	if !m["GET"] || !m["POST"] || len(m) != 2 {
		t.Errorf("parsed = %v", m)
	}
}

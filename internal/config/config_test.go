package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CHUNKER_MAX_CHUNK_SIZE", "")
	t.Setenv("REDIS_URL", "")
	cfg := Load()
	if cfg.MaxChunkSize != 4500 {
		t.Errorf("expected MaxChunkSize 4500, got %d", cfg.MaxChunkSize)
	}
	if cfg.RedisURL != "" {
		t.Errorf("expected cache disabled by default, got %q", cfg.RedisURL)
	}
	if cfg.CacheTTL != 7*24*time.Hour {
		t.Errorf("expected one week cache TTL, got %s", cfg.CacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CHUNKER_MAX_CHUNK_SIZE", "1000")
	t.Setenv("CHUNKER_CACHE_TTL_SECONDS", "60")
	t.Setenv("DEEPL_CHAR_LIMIT", "not-a-number")
	cfg := Load()
	if cfg.MaxChunkSize != 1000 {
		t.Errorf("expected MaxChunkSize 1000, got %d", cfg.MaxChunkSize)
	}
	if cfg.CacheTTL != time.Minute {
		t.Errorf("expected 1m cache TTL, got %s", cfg.CacheTTL)
	}
	if cfg.DeepLCharLimit != 30000 {
		t.Errorf("expected fallback char limit 30000, got %d", cfg.DeepLCharLimit)
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoadIncludesResilienceDefaults(t *testing.T) {
	t.Setenv("RETRY_MAX_ATTEMPTS", "")
	t.Setenv("RETRY_BASE_DELAY", "")
	t.Setenv("RETRY_MAX_BACKOFF", "")
	t.Setenv("ANALYSIS_CACHE_TTL", "")

	cfg := Load()
	if cfg.RetryMaxAttempts != 5 {
		t.Fatalf("expected default retry attempts 5, got %d", cfg.RetryMaxAttempts)
	}
	if cfg.RetryBaseDelay != time.Second {
		t.Fatalf("expected default base delay 1s, got %s", cfg.RetryBaseDelay)
	}
	if cfg.RetryMaxBackoff != 30*time.Second {
		t.Fatalf("expected default max backoff 30s, got %s", cfg.RetryMaxBackoff)
	}
	if cfg.AnalysisCacheTTL != 24*time.Hour {
		t.Fatalf("expected default cache ttl 24h, got %s", cfg.AnalysisCacheTTL)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("NATS_SUBJECT", "scans.test")
	t.Setenv("VISION_MODEL", "gpt-4o")
	t.Setenv("RETRY_MAX_ATTEMPTS", "3")
	t.Setenv("RETRY_MAX_BACKOFF", "10s")
	t.Setenv("ANALYSIS_CACHE_TTL", "1h")

	cfg := Load()
	if cfg.NATSSubject != "scans.test" {
		t.Fatalf("expected subject override, got %q", cfg.NATSSubject)
	}
	if cfg.VisionModel != "gpt-4o" {
		t.Fatalf("expected model override, got %q", cfg.VisionModel)
	}
	if cfg.RetryMaxAttempts != 3 {
		t.Fatalf("expected retry attempts 3, got %d", cfg.RetryMaxAttempts)
	}
	if cfg.RetryMaxBackoff != 10*time.Second {
		t.Fatalf("expected max backoff 10s, got %s", cfg.RetryMaxBackoff)
	}
	if cfg.AnalysisCacheTTL != time.Hour {
		t.Fatalf("expected cache ttl 1h, got %s", cfg.AnalysisCacheTTL)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("RETRY_MAX_ATTEMPTS", "many")
	t.Setenv("RETRY_BASE_DELAY", "soon")

	cfg := Load()
	if cfg.RetryMaxAttempts != 5 {
		t.Fatalf("malformed int should fall back, got %d", cfg.RetryMaxAttempts)
	}
	if cfg.RetryBaseDelay != time.Second {
		t.Fatalf("malformed duration should fall back, got %s", cfg.RetryBaseDelay)
	}
}

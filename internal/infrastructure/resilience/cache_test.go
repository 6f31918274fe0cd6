package resilience

import (
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func TestMemoryCacheExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	cache := NewMemoryCache(time.Hour, clock)

	cache.Put("k", "v")
	if value, ok := cache.Get("k"); !ok || value != "v" {
		t.Fatalf("expected live entry, got (%v, %v)", value, ok)
	}

	clock.now = clock.now.Add(59 * time.Minute)
	if _, ok := cache.Get("k"); !ok {
		t.Fatalf("entry expired before its TTL")
	}

	clock.now = clock.now.Add(2 * time.Minute)
	if _, ok := cache.Get("k"); ok {
		t.Fatalf("expired entry must be treated as absent")
	}
}

func TestMemoryCacheMissOnUnknownKey(t *testing.T) {
	cache := NewMemoryCache(time.Hour, &fakeClock{now: time.Now()})
	if _, ok := cache.Get("missing"); ok {
		t.Fatalf("expected miss for unknown key")
	}
}

func TestCacheKeyDeterministic(t *testing.T) {
	a := CacheKey("describe_product", "file:///a.jpg")
	b := CacheKey("describe_product", "file:///a.jpg")
	if a != b {
		t.Fatalf("cache key is not deterministic: %q vs %q", a, b)
	}
	if a == CacheKey("describe_product", "file:///b.jpg") {
		t.Fatalf("different params must produce different keys")
	}
}

package resilience

import (
	"sync"
	"time"
)

// Clock abstracts time for cache expiry so tests can inject a fake.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock used outside tests.
var SystemClock Clock = systemClock{}

// Cache is a time-boxed response cache. An expired entry is treated as
// absent. Implementations do not deduplicate concurrent misses on the same
// key: each caller invokes the underlying operation until the first success
// populates the entry.
type Cache interface {
	Get(key string) (any, bool)
	Put(key string, value any)
}

type cacheEntry struct {
	storedAt time.Time
	value    any
}

// MemoryCache is a process-lifetime in-memory cache with a fixed TTL.
type MemoryCache struct {
	ttl   time.Duration
	clock Clock

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// DefaultCacheTTL bounds how long a cached response stays live.
const DefaultCacheTTL = 24 * time.Hour

func NewMemoryCache(ttl time.Duration, clock Clock) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if clock == nil {
		clock = SystemClock
	}
	return &MemoryCache{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]cacheEntry),
	}
}

func (c *MemoryCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.clock.Now().Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.value, true
}

func (c *MemoryCache) Put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		storedAt: c.clock.Now(),
		value:    value,
	}
}

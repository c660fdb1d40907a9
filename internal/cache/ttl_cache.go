// Package cache provides a thread-safe cache with time-based expiration.
// The API server uses it to keep encoded geometry representations warm
// between store reads; any store mutation invalidates the whole cache.
package cache

import (
	"sync"
	"time"
)

// TTLCache stores key-value pairs behind a single timestamp. When the TTL
// elapses, every entry is stale at once. That coarse model fits caches
// that are cleared wholesale on mutation rather than evicted per entry.
type TTLCache[K comparable, V any] struct {
	mu        sync.RWMutex
	data      map[K]V
	timestamp time.Time
	ttl       time.Duration
}

// New creates a TTLCache with the given TTL. A fresh cache has a zero
// timestamp and reports every lookup as a miss.
func New[K comparable, V any](ttl time.Duration) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		data: make(map[K]V),
		ttl:  ttl,
	}
}

// Get retrieves a value. It reports a miss when the key is absent or the
// cache has expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.expiredLocked() {
		var zero V
		return zero, false
	}

	value, ok := c.data[key]
	return value, ok
}

// Set stores a value and restarts the TTL timer for the whole cache.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.data == nil {
		c.data = make(map[K]V)
	}
	c.data[key] = value
	c.timestamp = time.Now()
}

// Invalidate drops all entries and resets the timestamp, forcing misses
// until the next Set.
func (c *TTLCache[K, V]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[K]V)
	c.timestamp = time.Time{}
}

// IsExpired reports whether the cache contents are stale.
func (c *TTLCache[K, V]) IsExpired() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.expiredLocked()
}

// Len returns the number of entries regardless of expiry.
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// expiredLocked must be called with at least a read lock held.
func (c *TTLCache[K, V]) expiredLocked() bool {
	return c.timestamp.IsZero() || time.Since(c.timestamp) >= c.ttl
}

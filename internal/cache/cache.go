// Package cache provides a bounded in-memory key/value store with per-entry
// TTL expiry, plus a registry of named cache instances shared across the
// aggregation pipelines.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a thread-safe expiring key/value store. Expired entries are
// removed lazily on lookup and opportunistically while computing size or
// making room for an insert; there is no background sweeper. When the number
// of live entries reaches capacity, the entry closest to expiry is evicted
// first.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

// New creates a cache whose entries live for ttl and which holds at most
// maxSize live entries.
func New[V any](ttl time.Duration, maxSize int) *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get returns the value stored under key, or the zero value and false if the
// key is absent or its entry has expired. An expired entry is deleted on the
// way out so it never satisfies a later lookup.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prune()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with an expiry of now+ttl, evicting the
// soonest-to-expire entry first if the cache is already at capacity.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Has reports whether key holds a live entry.
func (c *Cache[V]) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Delete removes key unconditionally. Missing keys are ignored.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear removes every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry[V])
	c.mu.Unlock()
}

// Len returns the number of live entries after dropping any that expired.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prune()
	return len(c.entries)
}

// evictOldest drops expired entries encountered during the scan, then, if the
// cache is still at capacity, evicts the live entry with the earliest expiry.
// Under a uniform TTL that is the oldest insertion. Callers must hold mu.
func (c *Cache[V]) evictOldest() {
	now := c.now()

	var oldestKey string
	var oldestTime time.Time
	found := false

	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			continue
		}
		if !found || e.expiresAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = e.expiresAt
			found = true
		}
	}

	if len(c.entries) >= c.maxSize && found {
		delete(c.entries, oldestKey)
	}
}

// prune removes all expired entries. Callers must hold mu.
func (c *Cache[V]) prune() {
	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

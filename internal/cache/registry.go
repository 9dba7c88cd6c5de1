package cache

import (
	"fmt"
	"sync"
	"time"
)

type store interface {
	Clear()
}

// Registry hands out named cache instances. Each name is lazily bound to one
// cache on first lookup and the same instance is returned afterwards, so the
// pipelines for "stats", "languages" and "contributions" each share a single
// process-wide cache. The registry is an explicit object injected at startup
// rather than package-level state, which keeps tests isolated.
type Registry struct {
	mu     sync.Mutex
	caches map[string]store
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{caches: make(map[string]store)}
}

// For returns the cache registered under name, creating it with the given
// ttl and maxSize on first use. The ttl and maxSize arguments only matter on
// that first call; later lookups return the existing instance as-is. Looking
// up an existing name with a different value type is a programming error and
// panics.
func For[V any](r *Registry, name string, ttl time.Duration, maxSize int) *Cache[V] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.caches[name]; ok {
		typed, ok := existing.(*Cache[V])
		if !ok {
			panic(fmt.Sprintf("cache: %q already registered with a different value type", name))
		}
		return typed
	}

	c := New[V](ttl, maxSize)
	r.caches[name] = c
	return c
}

// ClearAll empties every named cache. Used for administrative reset and test
// isolation.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.caches {
		c.Clear()
	}
}

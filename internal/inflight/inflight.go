// Package inflight collapses concurrent identical upstream calls into a
// single execution. It exists purely to bound upstream load under request
// bursts; it is not a cache and nothing persists once a call settles.
package inflight

import (
	"encoding/json"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// Group deduplicates outstanding calls by key. All callers that arrive while
// a call for the same key is in flight share its result, success or failure
// alike; the key is forgotten the moment the shared call settles, so the next
// caller starts fresh.
type Group struct {
	sf singleflight.Group
}

// Do executes fn under key, or joins an outstanding execution for the same
// key and returns its result.
func Do[T any](g *Group, key string, fn func() (T, error)) (T, error) {
	v, err, _ := g.sf.Do(key, func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Key derives a deterministic flight key from an operation name and its
// variables. json.Marshal emits map keys in sorted order, so structurally
// identical requests produce identical keys regardless of caller.
func Key(op string, vars map[string]any) string {
	b, err := json.Marshal(vars)
	if err != nil {
		// Variables are plain strings and numbers; a marshal failure here
		// means a caller passed something unserializable.
		panic(fmt.Sprintf("inflight: unserializable variables for %s: %v", op, err))
	}
	return op + ":" + string(b)
}

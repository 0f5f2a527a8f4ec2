package builder

import (
	"fmt"
	"sort"
	"strings"
)

// Registry is the fixed mapping from engine key to adapter. It is populated
// once at startup and read-only afterwards; Get is safe for concurrent use
// after construction.
type Registry struct {
	entries map[string]entry
}

type entry struct {
	b      Builder
	reason error // non-nil when the adapter's capability check failed
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a working adapter under key, replacing any previous entry.
func (r *Registry) Register(key string, b Builder) {
	r.entries[key] = entry{b: b}
}

// RegisterUnavailable records that the adapter for key could not be
// constructed on this host. Lookups of key return an error wrapping
// ErrUnavailable carrying reason, so callers can distinguish "bad key"
// from "known engine, missing capability".
func (r *Registry) RegisterUnavailable(key string, reason error) {
	r.entries[key] = entry{reason: reason}
}

// Get resolves key to its adapter. An unknown key yields an error wrapping
// ErrUnknownEngine that lists the valid keys; an unavailable adapter yields
// an error wrapping ErrUnavailable and its construction-time reason.
func (r *Registry) Get(key string) (Builder, error) {
	e, ok := r.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid engines: %s)",
			ErrUnknownEngine, key, strings.Join(r.Keys(), ", "))
	}
	if e.reason != nil {
		return nil, fmt.Errorf("engine %q: %w: %v", key, ErrUnavailable, e.reason)
	}
	return e.b, nil
}

// Keys returns the registered engine keys in sorted order, including
// unavailable ones.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Available reports whether key is registered with a working adapter.
func (r *Registry) Available(key string) bool {
	e, ok := r.entries[key]
	return ok && e.reason == nil
}

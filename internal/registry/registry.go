package registry

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrAlreadyConsumed is returned by every mutating or discovery-facing
// operation once the registry has been frozen by Freeze.
var ErrAlreadyConsumed = errors.New("registry already consumed")

// Identity is an opaque handle naming where a module was discovered. It keys
// the registry and shows up in diagnostics; it is never reused across runs.
type Identity string

func (id Identity) String() string { return string(id) }

// Entry is one (identity, instance) pair in registration order.
type Entry struct {
	ID       Identity
	Instance any
}

// Registry accumulates module instances during the discovery window and
// becomes read-only the instant Freeze succeeds. Iteration order is
// registration order; callers must not rely on cross-module ordering for
// correctness, only for determinism within a single run.
type Registry struct {
	mu       sync.Mutex
	consumed atomic.Bool
	order    []Identity
	items    map[Identity]any
}

// New creates an empty registry in the discovering state.
func New() *Registry {
	return &Registry{items: make(map[Identity]any)}
}

// Register adds an entry while the registry is still discovering. Instances
// that expose no lifecycle capability at all are registered anyway;
// capability detection, not registration, decides relevance. Re-registering
// an identity overwrites the instance silently and keeps the original
// position.
func (r *Registry) Register(id Identity, instance any) error {
	if r.consumed.Load() {
		return ErrAlreadyConsumed
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[id]; !exists {
		r.order = append(r.order, id)
	}
	r.items[id] = instance
	return nil
}

// Freeze performs the one-time discovering -> consumed transition. Exactly
// one caller wins; every later call gets ErrAlreadyConsumed. After a
// successful Freeze the registry and everything derived from it are
// immutable, so no further locking discipline is required downstream.
func (r *Registry) Freeze() error {
	if !r.consumed.CompareAndSwap(false, true) {
		return ErrAlreadyConsumed
	}
	return nil
}

// Consumed reports whether Freeze has already happened.
func (r *Registry) Consumed() bool {
	return r.consumed.Load()
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Snapshot returns the registered entries in registration order. After
// Freeze the result is stable for the lifetime of the process.
func (r *Registry) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]Entry, 0, len(r.order))
	for _, id := range r.order {
		entries = append(entries, Entry{ID: id, Instance: r.items[id]})
	}
	return entries
}

// Package translate feeds chat lines to a translation engine through a
// debounced, bounded queue, with an LRU cache in front of the engine and
// per-engine statistics behind it.
package translate

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Engine translates text between languages. Engines are registered by the
// host program; this package ships no provider clients of its own. An engine
// failure becomes a per-item failed result, never a crash, and is not
// retried.
type Engine interface {
	Name() string
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// Func adapts a plain function to the Engine interface.
type Func struct {
	ID string
	Fn func(ctx context.Context, text, from, to string) (string, error)
}

// Name returns the engine identifier.
func (f Func) Name() string { return f.ID }

// Translate calls the wrapped function.
func (f Func) Translate(ctx context.Context, text, from, to string) (string, error) {
	return f.Fn(ctx, text, from, to)
}

// NotConfiguredError reports a request for an engine nobody registered.
type NotConfiguredError struct {
	Engine string
}

func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("translation engine %q is not configured", e.Engine)
}

// Registry holds the named engines available to the dispatcher.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]Engine
}

// NewRegistry returns an empty engine registry.
func NewRegistry() *Registry {
	return &Registry{engines: make(map[string]Engine)}
}

// Register adds or replaces an engine under its own name.
func (r *Registry) Register(e Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[e.Name()] = e
}

// Get returns the named engine, or a NotConfiguredError.
func (r *Registry) Get(name string) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.engines[name]
	if !ok {
		return nil, &NotConfiguredError{Engine: name}
	}
	return e, nil
}

// Names returns the registered engine names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.engines))
	for n := range r.engines {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

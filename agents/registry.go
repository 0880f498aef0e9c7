package agents

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/textmesh/room"
)

// Registry maps agent names to entry function factories so hosts can select
// an agent from configuration. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]func() room.EntryFunc
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]func() room.EntryFunc)}
}

// Register adds a named entry function factory, overwriting any previous
// registration under the same name.
func (r *Registry) Register(name string, factory func() room.EntryFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = factory
}

// Resolve returns a fresh entry function for the given agent name.
func (r *Registry) Resolve(name string) (room.EntryFunc, error) {
	r.mu.RLock()
	factory, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown agent %q", name)
	}
	return factory(), nil
}

// Names returns the registered agent names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns a registry preloaded with the model free agents.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register("echo", Echo)
	r.Register("recall", Recall)
	return r
}

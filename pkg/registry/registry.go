// Package registry manages named operations that pipeline definitions
// can reference. An Op receives its arguments positionally; Bind adapts
// it to a domain.Func that gathers the node's parameters by name, so
// pipeline authors are free to choose value names in the graph
// namespace.
package registry

import (
	"context"
	"fmt"
	"sync"

	"braid/pkg/domain"
)

// Op is a positional operation: args arrive in the order the node
// declares its parameters.
type Op func(ctx context.Context, args []any) (any, error)

// Registry manages the available operations.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]Op
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ops: make(map[string]Op),
	}
}

// Register adds an operation to the registry.
// If an operation with the same name exists, it is overwritten.
func (r *Registry) Register(name string, op Op) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops[name] = op
}

// Get looks up an operation by name.
func (r *Registry) Get(name string) (Op, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[name]
	return op, ok
}

// Names returns the registered operation names, unordered.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	return names
}

// Bind adapts the named operation to a domain.Func for a node with the
// given parameter names. Returns an error if the operation is not
// registered.
func (r *Registry) Bind(name string, params []string) (domain.Func, error) {
	op, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("operation not found: %s", name)
	}
	return func(ctx context.Context, args map[string]any) (any, error) {
		ordered := make([]any, len(params))
		for i, param := range params {
			ordered[i] = args[param]
		}
		return op(ctx, ordered)
	}, nil
}

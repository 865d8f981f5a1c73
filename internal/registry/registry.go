package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// ErrNotFound is returned by Lookup when no operator carries the name.
var ErrNotFound = errors.New("operator not found")

// Module is the interface that all operator families must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds all the registered operators for a single application instance.
type Registry struct {
	mu        sync.RWMutex
	operators map[string]*Operator
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		operators: make(map[string]*Operator),
	}
}

// Register adds an operator. Registering the same name twice is a
// programming error and panics.
func (r *Registry) Register(op *Operator) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.operators[op.Name]; exists {
		panic(fmt.Sprintf("operator with name '%s' already registered", op.Name))
	}
	slog.Debug("Registering operator.", "name", op.Name, "arity", op.Arity())
	r.operators[op.Name] = op
}

// Lookup returns the operator registered under name.
func (r *Registry) Lookup(name string) (*Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, ok := r.operators[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrNotFound, name)
	}
	return op, nil
}

// Names returns the registered operator names in lexicographic order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.operators))
	for name := range r.operators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered operators.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.operators)
}

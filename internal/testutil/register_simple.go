package testutil

import (
	"sync/atomic"

	"github.com/vk/patchgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// SimpleModule is a test helper for easily creating a mock module that
// registers a fixed set of operators.
type SimpleModule struct {
	Operators []*registry.Operator
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	for _, op := range m.Operators {
		r.Register(op)
	}
}

// CountingOperator wraps an operator so that every call of its operation is
// counted. It is used to prove that composition does not evaluate anything.
type CountingOperator struct {
	*registry.Operator
	calls atomic.Int64
}

// NewCountingOperator wraps op. The returned value's Operator field is a copy
// whose Operation increments the counter before delegating.
func NewCountingOperator(op *registry.Operator) *CountingOperator {
	c := &CountingOperator{}
	inner := op.Operation
	wrapped := *op
	wrapped.Operation = function.New(&function.Spec{
		Description: inner.Description(),
		Params:      inner.Params(),
		Type:        function.StaticReturnType(cty.DynamicPseudoType),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			c.calls.Add(1)
			return inner.Call(args)
		},
	})
	c.Operator = &wrapped
	return c
}

// Calls returns how often the operation ran.
func (c *CountingOperator) Calls() int64 {
	return c.calls.Load()
}

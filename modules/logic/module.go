// Package logic registers boolean and comparison operators.
package logic

import (
	"github.com/vk/patchgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the operators with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Operator{
		Name:        "and",
		Description: "Logical conjunction.",
		Operation:   stdlib.AndFunc,
		Defaults:    registry.Constants(cty.True, cty.True),
	})
	r.Register(&registry.Operator{
		Name:        "or",
		Description: "Logical disjunction.",
		Operation:   stdlib.OrFunc,
		Defaults:    registry.Constants(cty.True, cty.False),
	})
	r.Register(&registry.Operator{
		Name:        "not",
		Description: "Logical negation.",
		Operation:   stdlib.NotFunc,
		Defaults:    registry.Constants(cty.True),
	})
	r.Register(&registry.Operator{
		Name:        "xor",
		Description: "True when exactly one input is true.",
		Operation:   XorFunc,
		Defaults:    registry.Constants(cty.True, cty.False),
	})
	r.Register(&registry.Operator{
		Name:        "greater",
		Description: "a > b.",
		Operation:   stdlib.GreaterThanFunc,
		Defaults:    registry.Constants(cty.NumberIntVal(5), cty.NumberIntVal(3)),
	})
	r.Register(&registry.Operator{
		Name:        "less",
		Description: "a < b.",
		Operation:   stdlib.LessThanFunc,
		Defaults:    registry.Constants(cty.NumberIntVal(3), cty.NumberIntVal(5)),
	})
	r.Register(&registry.Operator{
		Name:        "equal",
		Description: "Strict equality of two values of the same type.",
		Operation:   stdlib.EqualFunc,
		Defaults:    registry.Constants(cty.NumberIntVal(5), cty.NumberIntVal(5)),
	})
}

// XorFunc is exclusive or over two booleans.
var XorFunc = function.New(&function.Spec{
	Description: "Returns true if exactly one of the two arguments is true.",
	Params: []function.Parameter{
		{Name: "a", Type: cty.Bool},
		{Name: "b", Type: cty.Bool},
	},
	Type: function.StaticReturnType(cty.Bool),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return args[0].Equals(args[1]).Not(), nil
	},
})

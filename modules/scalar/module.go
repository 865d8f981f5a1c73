// Package scalar registers the arithmetic operators over single numbers.
package scalar

import (
	"github.com/vk/patchgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func num(n int64) cty.Value { return cty.NumberIntVal(n) }

// Register registers the operators with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Operator{
		Name:        "add",
		Description: "Sum of two numbers.",
		Operation:   stdlib.AddFunc,
		Defaults:    registry.Constants(num(1), num(1)),
	})
	r.Register(&registry.Operator{
		Name:        "subtract",
		Description: "Difference of two numbers, a - b.",
		Operation:   stdlib.SubtractFunc,
		Defaults:    registry.Constants(num(2), num(1)),
	})
	r.Register(&registry.Operator{
		Name:        "multiply",
		Description: "Product of two numbers.",
		Operation:   stdlib.MultiplyFunc,
		Defaults:    registry.Constants(num(2), num(3)),
	})
	r.Register(&registry.Operator{
		Name:        "divide",
		Description: "Quotient of two numbers, a / b. Zero divided by zero is an error.",
		Operation:   stdlib.DivideFunc,
		Defaults:    registry.Constants(num(6), num(2)),
	})
	r.Register(&registry.Operator{
		Name:        "abs",
		Description: "Absolute value.",
		Operation:   stdlib.AbsoluteFunc,
		Defaults:    registry.Constants(num(-5)),
	})
	r.Register(&registry.Operator{
		Name:        "pow",
		Description: "a raised to the power b.",
		Operation:   stdlib.PowFunc,
		Defaults:    registry.Constants(num(2), num(3)),
	})
	r.Register(&registry.Operator{
		Name:        "sqrt",
		Description: "Square root of a non-negative number.",
		Operation:   registry.SqrtFunc,
		Defaults:    registry.Constants(num(16)),
	})
	r.Register(&registry.Operator{
		Name:        "min",
		Description: "Smaller of two numbers.",
		Operation:   binary(stdlib.MinFunc),
		Defaults:    registry.Constants(num(5), num(3)),
	})
	r.Register(&registry.Operator{
		Name:        "max",
		Description: "Larger of two numbers.",
		Operation:   binary(stdlib.MaxFunc),
		Defaults:    registry.Constants(num(5), num(3)),
	})
	r.Register(&registry.Operator{
		Name:        "clamp",
		Description: "value limited to the closed range [min, max].",
		Operation:   ClampFunc,
		Defaults:    registry.Constants(num(5), num(0), num(10)),
	})
}

// binary pins a variadic numeric function to exactly two arguments.
func binary(f function.Function) function.Function {
	return function.New(&function.Spec{
		Description: f.Description(),
		Params: []function.Parameter{
			{Name: "a", Type: cty.Number},
			{Name: "b", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			return f.Call(args)
		},
	})
}

// ClampFunc returns min(max(value, min), max).
var ClampFunc = function.New(&function.Spec{
	Description: "Limits value to the range [min, max].",
	Params: []function.Parameter{
		{Name: "value", Type: cty.Number},
		{Name: "min", Type: cty.Number},
		{Name: "max", Type: cty.Number},
	},
	Type: function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		v, lo, hi := args[0], args[1], args[2]
		if v.LessThan(lo).True() {
			v = lo
		}
		if v.GreaterThan(hi).True() {
			v = hi
		}
		return v, nil
	},
})

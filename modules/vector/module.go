// Package vector registers operators over fixed-size numeric vectors.
//
// Vectors are lists of numbers. Inputs are accepted as any list or tuple whose
// elements convert to numbers, so literals from configuration files and
// command-line arguments can be fed in directly.
package vector

import (
	"fmt"

	"github.com/vk/patchgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
)

// Type is the cty type of every vector produced by this package.
var Type = cty.List(cty.Number)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the operators with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Operator{
		Name:        "vec2",
		Description: "Builds a two-component vector.",
		Operation:   constructor("x", "y"),
		Defaults:    registry.Constants(nums(1, 2)...),
	})
	r.Register(&registry.Operator{
		Name:        "vec3",
		Description: "Builds a three-component vector.",
		Operation:   constructor("x", "y", "z"),
		Defaults:    registry.Constants(nums(1, 2, 3)...),
	})
	r.Register(&registry.Operator{
		Name:        "vec4",
		Description: "Builds a four-component vector.",
		Operation:   constructor("x", "y", "z", "w"),
		Defaults:    registry.Constants(nums(1, 2, 3, 4)...),
	})
	r.Register(&registry.Operator{
		Name:        "dot",
		Description: "Dot product. Extra components of the longer vector are ignored.",
		Operation:   DotFunc,
		Defaults:    registry.Constants(Of(1, 2, 3), Of(4, 5, 6)),
	})
	r.Register(&registry.Operator{
		Name:        "cross",
		Description: "Cross product of two three-component vectors.",
		Operation:   CrossFunc,
		Defaults:    registry.Constants(Of(1, 0, 0), Of(0, 1, 0)),
	})
	r.Register(&registry.Operator{
		Name:        "length",
		Description: "Euclidean length.",
		Operation:   LengthFunc,
		Defaults:    registry.Constants(Of(3, 4)),
	})
	r.Register(&registry.Operator{
		Name:        "normalize",
		Description: "Vector scaled to unit length.",
		Operation:   NormalizeFunc,
		Defaults:    registry.Constants(Of(3, 4)),
	})
}

// Of builds a vector value from integer components.
func Of(components ...int64) cty.Value {
	if len(components) == 0 {
		return cty.ListValEmpty(cty.Number)
	}
	return cty.ListVal(nums(components...))
}

func nums(components ...int64) []cty.Value {
	vals := make([]cty.Value, len(components))
	for i, c := range components {
		vals[i] = cty.NumberIntVal(c)
	}
	return vals
}

// components converts a list or tuple of numbers into its elements.
func components(v cty.Value) ([]cty.Value, error) {
	list, err := convert.Convert(v, Type)
	if err != nil {
		return nil, err
	}
	if list.IsNull() {
		return nil, fmt.Errorf("vector must not be null")
	}
	if !list.IsWhollyKnown() {
		return nil, fmt.Errorf("vector must be known")
	}
	out := make([]cty.Value, 0, list.LengthInt())
	for it := list.ElementIterator(); it.Next(); {
		_, el := it.Element()
		if el.IsNull() {
			return nil, fmt.Errorf("vector component must not be null")
		}
		out = append(out, el)
	}
	return out, nil
}

func vectorParam(name string) function.Parameter {
	return function.Parameter{Name: name, Type: cty.DynamicPseudoType}
}

func constructor(names ...string) function.Function {
	params := make([]function.Parameter, len(names))
	for i, n := range names {
		params[i] = function.Parameter{Name: n, Type: cty.Number}
	}
	return function.New(&function.Spec{
		Params: params,
		Type:   function.StaticReturnType(Type),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			return cty.ListVal(args), nil
		},
	})
}

func dot(a, b []cty.Value) cty.Value {
	sum := cty.Zero
	for i := 0; i < len(a) && i < len(b); i++ {
		sum = sum.Add(a[i].Multiply(b[i]))
	}
	return sum
}

// DotFunc is the sum of pairwise component products.
var DotFunc = function.New(&function.Spec{
	Description: "Returns the dot product of two vectors.",
	Params:      []function.Parameter{vectorParam("a"), vectorParam("b")},
	Type:        function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		a, err := components(args[0])
		if err != nil {
			return cty.NilVal, function.NewArgError(0, err)
		}
		b, err := components(args[1])
		if err != nil {
			return cty.NilVal, function.NewArgError(1, err)
		}
		return dot(a, b), nil
	},
})

// CrossFunc is the cross product of two three-component vectors.
var CrossFunc = function.New(&function.Spec{
	Description: "Returns the cross product of two three-component vectors.",
	Params:      []function.Parameter{vectorParam("a"), vectorParam("b")},
	Type:        function.StaticReturnType(Type),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		var vs [2][]cty.Value
		for i := range vs {
			c, err := components(args[i])
			if err != nil {
				return cty.NilVal, function.NewArgError(i, err)
			}
			if len(c) != 3 {
				return cty.NilVal, function.NewArgErrorf(i, "cross product needs 3 components, got %d", len(c))
			}
			vs[i] = c
		}
		a, b := vs[0], vs[1]
		return cty.ListVal([]cty.Value{
			a[1].Multiply(b[2]).Subtract(a[2].Multiply(b[1])),
			a[2].Multiply(b[0]).Subtract(a[0].Multiply(b[2])),
			a[0].Multiply(b[1]).Subtract(a[1].Multiply(b[0])),
		}), nil
	},
})

func length(c []cty.Value) (cty.Value, error) {
	return registry.SqrtFunc.Call([]cty.Value{dot(c, c)})
}

// LengthFunc is the Euclidean norm of a vector.
var LengthFunc = function.New(&function.Spec{
	Description: "Returns the Euclidean length of a vector.",
	Params:      []function.Parameter{vectorParam("vector")},
	Type:        function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		c, err := components(args[0])
		if err != nil {
			return cty.NilVal, function.NewArgError(0, err)
		}
		return length(c)
	},
})

// NormalizeFunc scales a vector to unit length.
var NormalizeFunc = function.New(&function.Spec{
	Description: "Returns the vector divided by its length.",
	Params:      []function.Parameter{vectorParam("vector")},
	Type:        function.StaticReturnType(Type),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		c, err := components(args[0])
		if err != nil {
			return cty.NilVal, function.NewArgError(0, err)
		}
		l, err := length(c)
		if err != nil {
			return cty.NilVal, err
		}
		if l.RawEquals(cty.Zero) {
			return cty.NilVal, function.NewArgErrorf(0, "cannot normalize a zero-length vector")
		}
		out := make([]cty.Value, len(c))
		for i, x := range c {
			out[i] = x.Divide(l)
		}
		return cty.ListVal(out), nil
	},
})

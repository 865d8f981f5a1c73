// Package fanin implements the combinator that flattens the parameter lists
// of several fixed-arity functions into one and feeds their results into a
// combining function.
//
// All functions are go-cty functions, so arity is simply the length of the
// declared parameter list and argument-count checks are done by cty itself.
package fanin

import (
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// FanIn returns a function whose parameters are the concatenation of the
// parameters of fns, in order. Calling it slices the flat argument list back
// into per-function groups, calls each function with its group and then calls
// combine with the collected results.
//
// With an empty fns the result takes no arguments and returns combine().
func FanIn(fns []function.Function, combine function.Function) function.Function {
	arities := make([]int, len(fns))
	starts := make([]int, len(fns))

	var params []function.Parameter
	offset := 0
	for i, f := range fns {
		p := f.Params()
		arities[i] = len(p)
		starts[i] = offset
		offset += len(p)
		params = append(params, p...)
	}

	return function.New(&function.Spec{
		Params: params,
		Type:   function.StaticReturnType(cty.DynamicPseudoType),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			results := make([]cty.Value, len(fns))
			for i, f := range fns {
				v, err := f.Call(args[starts[i] : starts[i]+arities[i]])
				if err != nil {
					return cty.NilVal, err
				}
				results[i] = v
			}
			return combine.Call(results)
		},
	})
}

// Arity returns the number of positional parameters of f.
func Arity(f function.Function) int {
	return len(f.Params())
}

// Const returns a zero-argument function that always yields v.
func Const(v cty.Value) function.Function {
	return function.New(&function.Spec{
		Type: function.StaticReturnType(v.Type()),
		Impl: func(_ []cty.Value, _ cty.Type) (cty.Value, error) {
			return v, nil
		},
	})
}

// Identity returns a one-argument function that returns its argument
// unchanged. The parameter carries name so that a flattened signature built
// by FanIn stays readable.
func Identity(name string) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{
				Name:             name,
				Type:             cty.DynamicPseudoType,
				AllowNull:        true,
				AllowUnknown:     true,
				AllowDynamicType: true,
			},
		},
		Type: func(args []cty.Value) (cty.Type, error) {
			return args[0].Type(), nil
		},
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			return args[0], nil
		},
	})
}

// ParamNames returns the parameter names of f in positional order.
func ParamNames(f function.Function) []string {
	params := f.Params()
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}

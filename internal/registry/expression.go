package registry

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/patchgrid/internal/config"
	"github.com/vk/patchgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// SqrtFunc returns the square root of a non-negative number.
var SqrtFunc = function.New(&function.Spec{
	Description: "Returns the square root of the given number.",
	Params: []function.Parameter{
		{Name: "num", Type: cty.Number},
	},
	Type: function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		num := args[0].AsBigFloat()
		if num.Sign() < 0 {
			return cty.NilVal, function.NewArgErrorf(0, "cannot take the square root of a negative number")
		}
		if num.IsInf() {
			return cty.PositiveInfinity, nil
		}
		return cty.NumberVal(new(big.Float).Sqrt(num)), nil
	},
})

// expressionFunctions is the fixed function table available to expression
// operators.
var expressionFunctions = map[string]function.Function{
	"abs":    stdlib.AbsoluteFunc,
	"ceil":   stdlib.CeilFunc,
	"floor":  stdlib.FloorFunc,
	"log":    stdlib.LogFunc,
	"max":    stdlib.MaxFunc,
	"min":    stdlib.MinFunc,
	"pow":    stdlib.PowFunc,
	"signum": stdlib.SignumFunc,
	"sqrt":   SqrtFunc,
}

// ExpressionFunctions returns the sorted names of the functions expression
// operators may call.
func ExpressionFunctions() []string {
	names := make([]string, 0, len(expressionFunctions))
	for name := range expressionFunctions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewExpressionOperator builds an operator whose operation evaluates def.Expr
// with def.Params bound as variables.
func NewExpressionOperator(def *config.OperatorDefinition) (*Operator, error) {
	if def.Expr == nil {
		return nil, fmt.Errorf("operator '%s': missing expr", def.Name)
	}
	if len(def.Defaults) != len(def.Params) {
		return nil, fmt.Errorf("operator '%s': %d params but %d defaults", def.Name, len(def.Params), len(def.Defaults))
	}

	declared := make(map[string]struct{}, len(def.Params))
	params := make([]function.Parameter, len(def.Params))
	for i, name := range def.Params {
		declared[name] = struct{}{}
		params[i] = function.Parameter{
			Name:             name,
			Type:             cty.DynamicPseudoType,
			AllowDynamicType: true,
		}
	}

	// Only the params are in scope, so any other variable is a typo.
	for _, traversal := range def.Expr.Variables() {
		root := traversal.RootName()
		if _, ok := declared[root]; !ok {
			return nil, fmt.Errorf("operator '%s': expr refers to undeclared param '%s' at %s", def.Name, root, traversal.SourceRange())
		}
	}

	expr := def.Expr
	names := append([]string(nil), def.Params...)
	op := function.New(&function.Spec{
		Description: def.Description,
		Params:      params,
		Type:        function.StaticReturnType(cty.DynamicPseudoType),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			vars := make(map[string]cty.Value, len(args))
			for i, name := range names {
				vars[name] = args[i]
			}
			evalCtx := &hcl.EvalContext{
				Variables: vars,
				Functions: expressionFunctions,
			}
			v, diags := expr.Value(evalCtx)
			if diags.HasErrors() {
				return cty.NilVal, diags
			}
			return v, nil
		},
	})

	return &Operator{
		Name:        def.Name,
		Description: def.Description,
		Operation:   op,
		Defaults:    Constants(def.Defaults...),
	}, nil
}

// PopulateDefinitionsFromModel registers an expression operator for every
// operator declared in the model. Unlike Register, a name collision is
// reported as an error because the model comes from user input.
func (r *Registry) PopulateDefinitionsFromModel(ctx context.Context, model *config.Model) error {
	logger := ctxlog.FromContext(ctx)

	for name, def := range model.Operators {
		if _, err := r.Lookup(name); err == nil {
			return fmt.Errorf("operator '%s' declared in %s shadows a built-in operator", name, def.Source)
		}
		op, err := NewExpressionOperator(def)
		if err != nil {
			return err
		}
		r.Register(op)
		logger.Debug("Registered expression operator.", "name", name, "params", def.Params, "source", def.Source)
	}
	return nil
}

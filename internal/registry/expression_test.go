package registry

import (
	"context"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/patchgrid/internal/config"
	"github.com/zclconf/go-cty/cty"
)

func parseExpr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "expr.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors(), diags.Error())
	return expr
}

func TestNewExpressionOperator(t *testing.T) {
	op, err := NewExpressionOperator(&config.OperatorDefinition{
		Name:     "hypot",
		Params:   []string{"a", "b"},
		Defaults: []cty.Value{cty.NumberIntVal(3), cty.NumberIntVal(4)},
		Expr:     parseExpr(t, "sqrt(pow(a, 2) + pow(b, 2))"),
	})
	require.NoError(t, err)
	require.NoError(t, op.Validate())
	assert.Equal(t, 2, op.Arity())

	defaults, err := op.DefaultValues()
	require.NoError(t, err)
	got, err := op.Operation.Call(defaults)
	require.NoError(t, err)
	assert.True(t, got.RawEquals(cty.NumberIntVal(5)), "got %#v", got)
}

func TestNewExpressionOperator_Errors(t *testing.T) {
	_, err := NewExpressionOperator(&config.OperatorDefinition{
		Name:     "typo",
		Params:   []string{"x"},
		Defaults: []cty.Value{cty.NumberIntVal(1)},
		Expr:     parseExpr(t, "y * 2"),
	})
	assert.ErrorContains(t, err, "undeclared param 'y'")

	_, err = NewExpressionOperator(&config.OperatorDefinition{
		Name:   "short",
		Params: []string{"x"},
		Expr:   parseExpr(t, "x"),
	})
	assert.ErrorContains(t, err, "1 params but 0 defaults")

	_, err = NewExpressionOperator(&config.OperatorDefinition{Name: "empty"})
	assert.ErrorContains(t, err, "missing expr")
}

func TestExpressionOperator_RuntimeError(t *testing.T) {
	op, err := NewExpressionOperator(&config.OperatorDefinition{
		Name:     "root",
		Params:   []string{"x"},
		Defaults: []cty.Value{cty.NumberIntVal(-1)},
		Expr:     parseExpr(t, "sqrt(x)"),
	})
	require.NoError(t, err)

	_, err = op.Operation.Call([]cty.Value{cty.NumberIntVal(-1)})
	assert.ErrorContains(t, err, "square root of a negative number")
}

func TestPopulateDefinitionsFromModel(t *testing.T) {
	model := config.NewModel()
	model.Operators["double"] = &config.OperatorDefinition{
		Name:     "double",
		Params:   []string{"x"},
		Defaults: []cty.Value{cty.NumberIntVal(1)},
		Expr:     parseExpr(t, "x * 2"),
		Source:   "ops.hcl",
	}

	r := New()
	require.NoError(t, r.PopulateDefinitionsFromModel(context.Background(), model))
	op, err := r.Lookup("double")
	require.NoError(t, err)

	got, err := op.Operation.Call([]cty.Value{cty.NumberIntVal(21)})
	require.NoError(t, err)
	assert.True(t, got.RawEquals(cty.NumberIntVal(42)))
	assert.NoError(t, r.ValidateRegistry(context.Background()))

	err = r.PopulateDefinitionsFromModel(context.Background(), model)
	assert.ErrorContains(t, err, "operator 'double' declared in ops.hcl shadows a built-in operator")
}

func TestExpressionFunctions(t *testing.T) {
	assert.Equal(t,
		[]string{"abs", "ceil", "floor", "log", "max", "min", "pow", "signum", "sqrt"},
		ExpressionFunctions(),
	)
}

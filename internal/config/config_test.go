package config

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func mustExpr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors(), diags.Error())
	return expr
}

func validModel(t *testing.T) *Model {
	m := NewModel()
	m.Operators["double"] = &OperatorDefinition{
		Name:     "double",
		Params:   []string{"x"},
		Defaults: []cty.Value{cty.NumberIntVal(1)},
		Expr:     mustExpr(t, "x * 2"),
		Source:   "a.hcl",
	}
	m.Graph.Nodes = []*Node{
		{Key: "a", Operation: "add"},
		{Key: "b", Operation: "double", Position: &Point{X: 10, Y: 20}},
	}
	m.Graph.Edges = []*Edge{{Source: "a", Target: "b", Port: 0}}
	return m
}

func TestValidate_ValidModel(t *testing.T) {
	assert.NoError(t, Validate(validModel(t)))
	assert.NoError(t, Validate(NewModel()))
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	m := validModel(t)
	m.Operators["broken"] = &OperatorDefinition{
		Name:     "broken",
		Params:   []string{"x", "x"},
		Defaults: []cty.Value{cty.NumberIntVal(1)},
	}
	m.Graph.Nodes = append(m.Graph.Nodes,
		&Node{Key: "a", Operation: "add"},
		&Node{Key: "", Operation: "add"},
		&Node{Key: "c"},
	)
	m.Graph.Edges = append(m.Graph.Edges,
		&Edge{Source: "ghost", Target: "b", Port: 1},
		&Edge{Source: "a", Target: "nowhere", Port: 0},
		&Edge{Source: "a", Target: "b", Port: -1},
		&Edge{Source: "c", Target: "b", Port: 0},
	)

	err := Validate(m)
	require.Error(t, err)
	for _, want := range []string{
		"operator 'broken': 2 params but 1 defaults",
		"operator 'broken': missing expr",
		"operator 'broken': duplicate param 'x'",
		"node 'a' declared twice",
		"node with empty key",
		"node 'c': missing operation",
		"edge ghost -> b: unknown source node",
		"edge a -> nowhere: unknown target node",
		"edge a -> b: negative port -1",
		"edge c -> b: port 0 already fed by 'a'",
	} {
		assert.ErrorContains(t, err, want)
	}
}

func TestMerge(t *testing.T) {
	t.Run("concatenates graphs", func(t *testing.T) {
		first := validModel(t)
		second := NewModel()
		second.Graph.Nodes = []*Node{{Key: "c", Operation: "abs"}}
		second.Graph.Edges = []*Edge{{Source: "b", Target: "c", Port: 0}}

		merged, err := Merge(first, nil, second)
		require.NoError(t, err)
		assert.Len(t, merged.Operators, 1)
		assert.Len(t, merged.Graph.Nodes, 3)
		assert.Len(t, merged.Graph.Edges, 2)
		assert.Equal(t, "c", merged.Graph.Nodes[2].Key)
		assert.NoError(t, Validate(merged))
	})

	t.Run("duplicate operator is an error", func(t *testing.T) {
		other := validModel(t)
		other.Operators["double"].Source = "b.hcl"
		_, err := Merge(validModel(t), other)
		assert.ErrorContains(t, err, "operator 'double' declared twice (a.hcl and b.hcl)")
	})
}

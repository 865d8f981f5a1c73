package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/patchgrid/internal/registry"
	"github.com/vk/patchgrid/internal/testutil"
	"github.com/zclconf/go-cty/cty"
)

func callDefaults(t *testing.T, r *registry.Registry, name string) cty.Value {
	t.Helper()
	op, err := r.Lookup(name)
	require.NoError(t, err)
	require.NoError(t, op.Validate())
	args, err := op.DefaultValues()
	require.NoError(t, err)
	got, err := op.Operation.Call(args)
	require.NoError(t, err)
	return got
}

func TestOperatorsOnDefaults(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	assert.Len(t, r.Names(), 7)

	testutil.AssertNumbers(t, []float64{1, 2}, callDefaults(t, r, "vec2"))
	testutil.AssertNumbers(t, []float64{1, 2, 3}, callDefaults(t, r, "vec3"))
	testutil.AssertNumbers(t, []float64{1, 2, 3, 4}, callDefaults(t, r, "vec4"))
	testutil.AssertNumber(t, 32, callDefaults(t, r, "dot"))
	testutil.AssertNumbers(t, []float64{0, 0, 1}, callDefaults(t, r, "cross"))
	testutil.AssertNumber(t, 5, callDefaults(t, r, "length"))
	testutil.AssertNumbers(t, []float64{0.6, 0.8}, callDefaults(t, r, "normalize"))
}

func TestVectorsAcceptTuples(t *testing.T) {
	tuple := cty.TupleVal([]cty.Value{cty.NumberIntVal(3), cty.NumberIntVal(4)})
	got, err := LengthFunc.Call([]cty.Value{tuple})
	require.NoError(t, err)
	testutil.AssertNumber(t, 5, got)
}

func TestDot_TruncatesToShorter(t *testing.T) {
	got, err := DotFunc.Call([]cty.Value{Of(1, 2, 3), Of(4, 5)})
	require.NoError(t, err)
	testutil.AssertNumber(t, 14, got)
}

func TestErrors(t *testing.T) {
	_, err := CrossFunc.Call([]cty.Value{Of(1, 2), Of(0, 1, 0)})
	assert.ErrorContains(t, err, "cross product needs 3 components, got 2")

	_, err = NormalizeFunc.Call([]cty.Value{Of(0, 0)})
	assert.ErrorContains(t, err, "zero-length vector")

	_, err = LengthFunc.Call([]cty.Value{cty.StringVal("nope")})
	assert.Error(t, err)
}

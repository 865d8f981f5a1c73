package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

const numberDelta = 1e-9

// Number converts a known, non-null cty number to float64, failing the test
// otherwise.
func Number(t *testing.T, v cty.Value) float64 {
	t.Helper()
	require.True(t, v.IsKnown(), "value is unknown")
	require.False(t, v.IsNull(), "value is null")
	require.True(t, v.Type().Equals(cty.Number), "expected a number, got %s", v.Type().FriendlyName())
	f, _ := v.AsBigFloat().Float64()
	return f
}

// AssertNumber checks that v is a number within a small delta of want.
// msgAndArgs are passed on to the assertion as with testify.
func AssertNumber(t *testing.T, want float64, v cty.Value, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want, Number(t, v), numberDelta, msgAndArgs...)
}

// AssertNumbers checks that v is a list or tuple of numbers matching want
// element by element.
func AssertNumbers(t *testing.T, want []float64, v cty.Value) {
	t.Helper()
	list, err := convert.Convert(v, cty.List(cty.Number))
	require.NoError(t, err, "expected a list of numbers, got %s", v.Type().FriendlyName())
	require.Equal(t, len(want), list.LengthInt())

	i := 0
	for it := list.ElementIterator(); it.Next(); i++ {
		_, el := it.Element()
		assert.InDelta(t, want[i], Number(t, el), numberDelta, "element %d", i)
	}
}

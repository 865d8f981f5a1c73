package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/patchgrid/internal/fanin"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

func addOperator() *Operator {
	return &Operator{
		Name:      "add",
		Operation: stdlib.AddFunc,
		Defaults:  Constants(cty.NumberIntVal(1), cty.NumberIntVal(1)),
	}
}

func TestRegister_AndLookup(t *testing.T) {
	r := New()
	r.Register(addOperator())

	op, err := r.Lookup("add")
	require.NoError(t, err)
	assert.Equal(t, 2, op.Arity())

	_, err = r.Lookup("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, "'nope'")

	assert.Equal(t, []string{"add"}, r.Names())
	assert.Equal(t, 1, r.Len())
}

func TestRegister_DuplicatePanics(t *testing.T) {
	r := New()
	r.Register(addOperator())
	assert.PanicsWithValue(t, "operator with name 'add' already registered", func() {
		r.Register(addOperator())
	})
}

func TestOperator_DefaultValues(t *testing.T) {
	vals, err := addOperator().DefaultValues()
	require.NoError(t, err)
	require.Len(t, vals, 2)
	assert.True(t, vals[0].RawEquals(cty.NumberIntVal(1)))
}

func TestValidateRegistry(t *testing.T) {
	t.Run("valid registry", func(t *testing.T) {
		r := New()
		r.Register(addOperator())
		assert.NoError(t, r.ValidateRegistry(context.Background()))
	})

	t.Run("collects every violation", func(t *testing.T) {
		r := New()
		r.Register(&Operator{
			Name:      "short",
			Operation: stdlib.AddFunc,
			Defaults:  Constants(cty.NumberIntVal(1)),
		})
		r.Register(&Operator{
			Name:      "variadic",
			Operation: stdlib.MaxFunc,
		})
		r.Register(&Operator{
			Name:      "bad_default",
			Operation: stdlib.AbsoluteFunc,
			Defaults:  []function.Function{fanin.Identity("x")},
		})

		err := r.ValidateRegistry(context.Background())
		require.Error(t, err)
		assert.ErrorContains(t, err, "registry validation failed")
		assert.ErrorContains(t, err, "operator 'short': arity 2 but 1 default providers")
		assert.ErrorContains(t, err, "operator 'variadic': variadic operations are not supported")
		assert.ErrorContains(t, err, "operator 'bad_default': default provider for port 0 must take no arguments, takes 1")
	})
}

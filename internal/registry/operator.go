package registry

import (
	"fmt"

	"github.com/vk/patchgrid/internal/fanin"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Operator is a named pure function plus a default provider per input port.
type Operator struct {
	Name        string
	Description string
	// Operation is the function applied at every node using this operator.
	Operation function.Function
	// Defaults holds one zero-argument provider per parameter of Operation.
	// Defaults[p] supplies port p whenever no edge feeds it.
	Defaults []function.Function
}

// Arity returns the number of input ports of the operator.
func (o *Operator) Arity() int {
	return fanin.Arity(o.Operation)
}

// Validate checks the structural invariants every operator must satisfy.
func (o *Operator) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("operator has no name")
	}
	if o.Operation.VarParam() != nil {
		return fmt.Errorf("operator '%s': variadic operations are not supported", o.Name)
	}
	if len(o.Defaults) != o.Arity() {
		return fmt.Errorf("operator '%s': arity %d but %d default providers", o.Name, o.Arity(), len(o.Defaults))
	}
	for i, d := range o.Defaults {
		if n := fanin.Arity(d); n != 0 || d.VarParam() != nil {
			return fmt.Errorf("operator '%s': default provider for port %d must take no arguments, takes %d", o.Name, i, n)
		}
	}
	return nil
}

// DefaultValues calls every default provider and returns their values in
// port order.
func (o *Operator) DefaultValues() ([]cty.Value, error) {
	vals := make([]cty.Value, len(o.Defaults))
	for i, d := range o.Defaults {
		v, err := d.Call(nil)
		if err != nil {
			return nil, fmt.Errorf("operator '%s': default for port %d: %w", o.Name, i, err)
		}
		vals[i] = v
	}
	return vals, nil
}

// Constants turns a list of values into constant default providers.
func Constants(vals ...cty.Value) []function.Function {
	fns := make([]function.Function, len(vals))
	for i, v := range vals {
		fns[i] = fanin.Const(v)
	}
	return fns
}

package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified representation of a loaded definition.
type Model struct {
	// Operators holds user-declared expression operators keyed by name.
	Operators map[string]*OperatorDefinition
	Graph     *Graph
}

// NewModel returns an empty model with its maps and graph initialized.
func NewModel() *Model {
	return &Model{
		Operators: make(map[string]*OperatorDefinition),
		Graph:     &Graph{},
	}
}

// OperatorDefinition declares an operator whose operation is an expression
// over named parameters, e.g. `x * 2`.
type OperatorDefinition struct {
	Name        string
	Description string
	// Params names the input ports in order; the expression refers to them
	// as variables.
	Params []string
	// Defaults holds one value per entry in Params.
	Defaults []cty.Value
	Expr     hcl.Expression
	// Source is the file the definition was read from, for error messages.
	Source string
}

// Graph is the user's wiring of operator instances.
type Graph struct {
	Nodes []*Node
	Edges []*Edge
}

// Node is one operator instance.
type Node struct {
	Key       string
	Operation string
	// Position is optional layout information for editors.
	Position *Point
}

// Point is a position on the editor canvas.
type Point struct {
	X float64
	Y float64
}

// Edge connects Source's output to input Port of Target.
type Edge struct {
	Source string
	Target string
	Port   int
}

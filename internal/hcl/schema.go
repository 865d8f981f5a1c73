package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Operators []*OperatorBlock `hcl:"operator,block"`
	Nodes     []*NodeBlock     `hcl:"node,block"`
	Edges     []*EdgeBlock     `hcl:"edge,block"`
}

// OperatorBlock declares an expression operator.
type OperatorBlock struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	Params      []string       `hcl:"params,optional"`
	Defaults    hcl.Expression `hcl:"defaults,optional"`
	// Expr is kept unevaluated; params are bound when the operator runs.
	Expr hcl.Expression `hcl:"expr"`
}

// NodeBlock declares one operator instance.
type NodeBlock struct {
	Key       string    `hcl:"key,label"`
	Operation string    `hcl:"operation"`
	Position  []float64 `hcl:"position,optional"`
}

// EdgeBlock connects two nodes. Port defaults to 0.
type EdgeBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
	Port *int   `hcl:"port,optional"`
}

package yamlgraph

import "encoding/json"

// document mirrors schema.json.
type document struct {
	Operators []operatorDoc `json:"operators"`
	Nodes     []nodeDoc     `json:"nodes"`
	Edges     []edgeDoc     `json:"edges"`
}

type operatorDoc struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Params      []string        `json:"params"`
	Defaults    json.RawMessage `json:"defaults"`
	Expr        string          `json:"expr"`
}

type nodeDoc struct {
	Key       string    `json:"key"`
	Operation string    `json:"operation"`
	Position  []float64 `json:"position"`
}

type edgeDoc struct {
	From string `json:"from"`
	To   string `json:"to"`
	Port int    `json:"port"`
}

package config

import "fmt"

// Merge combines several models into a new one. Operators declared more than
// once are an error; graph nodes and edges are concatenated in argument order
// and left for Validate to check.
func Merge(models ...*Model) (*Model, error) {
	merged := NewModel()
	for _, m := range models {
		if m == nil {
			continue
		}
		for name, def := range m.Operators {
			if prev, exists := merged.Operators[name]; exists {
				return nil, fmt.Errorf("operator '%s' declared twice (%s and %s)", name, prev.Source, def.Source)
			}
			merged.Operators[name] = def
		}
		if m.Graph != nil {
			merged.Graph.Nodes = append(merged.Graph.Nodes, m.Graph.Nodes...)
			merged.Graph.Edges = append(merged.Graph.Edges, m.Graph.Edges...)
		}
	}
	return merged, nil
}

package publish

import (
	"github.com/vk/patchgrid/internal/dag"
	"github.com/vk/patchgrid/internal/nodestore"
)

// Event names emitted to the editor.
const (
	EventStructure = "structure"
	EventLayout    = "layout"
)

// Structure is the wire form of a topology snapshot.
type Structure struct {
	Nodes []NodePayload `json:"nodes"`
	Edges []EdgePayload `json:"edges"`
}

// NodePayload describes one node of a Structure.
type NodePayload struct {
	Key       string `json:"key"`
	Operation string `json:"operation"`
}

// EdgePayload describes one edge of a Structure.
type EdgePayload struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Port   int    `json:"port"`
}

// NewStructure converts a snapshot into its wire form. Nodes are sorted by
// key and edges by ID.
func NewStructure(g *dag.Graph) Structure {
	s := Structure{
		Nodes: []NodePayload{},
		Edges: []EdgePayload{},
	}
	for _, key := range g.Nodes() {
		attrs, _ := g.Node(key)
		s.Nodes = append(s.Nodes, NodePayload{Key: key, Operation: attrs.Operation})
	}
	for _, e := range g.Edges() {
		s.Edges = append(s.Edges, EdgePayload{ID: e.ID, Source: e.Source, Target: e.Target, Port: e.TargetPort})
	}
	return s
}

// NewLayout converts a layout snapshot into its wire form.
func NewLayout(l nodestore.Layout) map[string]nodestore.Widget {
	out := make(map[string]nodestore.Widget, len(l))
	for k, w := range l {
		out[k] = w
	}
	return out
}

package graph

import (
	"context"

	"github.com/vk/patchgrid/internal/colimit"
	"github.com/vk/patchgrid/internal/config"
	"github.com/vk/patchgrid/internal/dag"
	"github.com/vk/patchgrid/internal/nodestore"
	"github.com/vk/patchgrid/internal/topologystore"
	"github.com/zclconf/go-cty/cty"
)

// Graph is the editing and evaluation surface of a patch.
type Graph interface {
	// CreateNode adds a node applying operation and places its widget at
	// `at`, or at the origin when at is nil.
	CreateNode(ctx context.Context, key, operation string, at *nodestore.Point) error
	// DestroyNode removes a node, every edge touching it and its widget.
	DestroyNode(ctx context.Context, key string) error
	// CreateEdge feeds source into input port `port` of target.
	CreateEdge(ctx context.Context, source, target string, port int) (string, error)
	// DestroyEdge removes every edge from source to target.
	DestroyEdge(ctx context.Context, source, target string) error
	// SetOperation changes the operator of a node.
	SetOperation(ctx context.Context, key, operation string) error
	// DisplaceNodes moves widgets by the given deltas; unknown keys are ignored.
	DisplaceNodes(ctx context.Context, deltas map[string]nodestore.Point) error
	// Load adds every node and edge of a configuration graph.
	Load(ctx context.Context, g *config.Graph) error

	// Colimit compiles the upstream closure of nodeID with defaults filling
	// unconnected ports.
	Colimit(ctx context.Context, nodeID string) (colimit.Map, error)
	// ColimitOpen compiles the upstream closure of nodeID with unconnected
	// ports left open, and returns the open-port signature of nodeID.
	ColimitOpen(ctx context.Context, nodeID string) (colimit.Map, []colimit.Port, error)
	// Evaluate compiles and calls the colimit at nodeID. Without args the
	// defaults are used; with args, open-port mode is used and the args fill
	// the open ports in signature order.
	Evaluate(ctx context.Context, nodeID string, args ...cty.Value) (cty.Value, error)
	// Inspect reports the neighbourhood of nodeID.
	Inspect(ctx context.Context, nodeID string) (*Inspection, error)

	// Snapshot returns an immutable copy of the topology.
	Snapshot(ctx context.Context) *dag.Graph
	// Layout returns a copy of the canvas layout.
	Layout(ctx context.Context) nodestore.Layout
	// SubscribeStructure and SubscribeLayout forward to the stores.
	SubscribeStructure(fn topologystore.Listener) func()
	SubscribeLayout(fn nodestore.Listener) func()
}

// Inspection describes a node's place in the graph.
type Inspection struct {
	Node      string
	Operation string
	// Upstream is the upstream closure, including Node, in evaluation order.
	Upstream []string
	// Terminals are the members of Upstream without incoming edges.
	Terminals []string
	// Descendants are the nodes reachable from Node, excluding Node, sorted.
	Descendants []string
	// Ports is the open-port signature of Node's colimit.
	Ports []colimit.Port
	// Defaults holds the default value of each entry in Ports.
	Defaults []cty.Value
}

package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/patchgrid/internal/colimit"
	"github.com/vk/patchgrid/internal/config"
	"github.com/vk/patchgrid/internal/ctxlog"
	"github.com/vk/patchgrid/internal/dag"
	"github.com/vk/patchgrid/internal/nodestore"
	"github.com/vk/patchgrid/internal/topologystore"
	"github.com/zclconf/go-cty/cty"
)

// Manager is the reference implementation of Graph.
//
// Edits go through mu so that checks made against one snapshot still hold
// when the mutation lands, and so that a node and its widget appear and
// disappear together. Reads use store snapshots and never take mu.
type Manager struct {
	topology  topologystore.Store
	layout    nodestore.Store
	evaluator *colimit.Evaluator

	mu sync.Mutex
}

// New creates a new graph manager.
func New(ts topologystore.Store, ns nodestore.Store, ops colimit.OperatorSource) *Manager {
	return &Manager{
		topology:  ts,
		layout:    ns,
		evaluator: colimit.New(ops),
	}
}

var _ Graph = (*Manager)(nil)

func (m *Manager) arity(operation string) (int, error) {
	op, err := m.evaluator.Operators.Lookup(operation)
	if err != nil {
		return 0, err
	}
	return op.Arity(), nil
}

// CreateNode adds a node and its widget.
func (m *Manager) CreateNode(ctx context.Context, key, operation string, at *nodestore.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.arity(operation); err != nil {
		return fmt.Errorf("creating node '%s': %w", key, err)
	}
	if err := m.topology.AddNode(ctx, key, dag.NodeAttributes{Operation: operation}); err != nil {
		return fmt.Errorf("creating node '%s': %w", key, err)
	}

	var w nodestore.Widget
	if at != nil {
		w.Position = *at
	}
	if err := m.layout.Place(ctx, key, w); err != nil {
		return fmt.Errorf("placing node '%s': %w", key, err)
	}
	ctxlog.FromContext(ctx).Debug("Node created.", "node", key, "operation", operation)
	return nil
}

// DestroyNode removes a node with its edges and widget.
func (m *Manager) DestroyNode(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.topology.RemoveNode(ctx, key); err != nil {
		return fmt.Errorf("destroying node '%s': %w", key, err)
	}
	if err := m.layout.Remove(ctx, key); err != nil {
		return fmt.Errorf("removing widget of '%s': %w", key, err)
	}
	ctxlog.FromContext(ctx).Debug("Node destroyed.", "node", key)
	return nil
}

// CreateEdge wires source into a port of target after checking that the
// target's operator has that port.
func (m *Manager) CreateEdge(ctx context.Context, source, target string, port int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	attrs, ok := m.topology.Snapshot(ctx).Node(target)
	if !ok {
		return "", fmt.Errorf("creating edge %s -> %s: destination %w: %s", source, target, dag.ErrNodeNotFound, target)
	}
	arity, err := m.arity(attrs.Operation)
	if err != nil {
		return "", fmt.Errorf("creating edge %s -> %s: %w", source, target, err)
	}
	if port < 0 || port >= arity {
		return "", fmt.Errorf("creating edge %s -> %s: %w", source, target, &colimit.PortError{Node: target, Port: port, Arity: arity})
	}

	id, err := m.topology.AddEdge(ctx, source, target, port)
	if err != nil {
		return "", fmt.Errorf("creating edge %s -> %s: %w", source, target, err)
	}
	ctxlog.FromContext(ctx).Debug("Edge created.", "edge", id)
	return id, nil
}

// DestroyEdge removes every edge from source to target.
func (m *Manager) DestroyEdge(ctx context.Context, source, target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.topology.RemoveEdge(ctx, source, target); err != nil {
		return fmt.Errorf("destroying edge %s -> %s: %w", source, target, err)
	}
	return nil
}

// SetOperation swaps the operator of a node. The new operator must have a
// port for every edge already feeding the node.
func (m *Manager) SetOperation(ctx context.Context, key, operation string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	arity, err := m.arity(operation)
	if err != nil {
		return fmt.Errorf("setting operation of '%s': %w", key, err)
	}
	snap := m.topology.Snapshot(ctx)
	in, err := snap.InEdges(key)
	if err != nil {
		return fmt.Errorf("setting operation of '%s': %w", key, err)
	}
	for _, e := range in {
		if e.TargetPort >= arity {
			return fmt.Errorf("setting operation of '%s': %w", key, &colimit.PortError{Node: key, Port: e.TargetPort, Arity: arity})
		}
	}
	return m.topology.SetOperation(ctx, key, operation)
}

// DisplaceNodes moves widgets.
func (m *Manager) DisplaceNodes(ctx context.Context, deltas map[string]nodestore.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.layout.Displace(ctx, deltas)
}

// Load adds every node, then every edge, of g.
func (m *Manager) Load(ctx context.Context, g *config.Graph) error {
	if g == nil {
		return nil
	}
	for _, n := range g.Nodes {
		var at *nodestore.Point
		if n.Position != nil {
			at = &nodestore.Point{X: n.Position.X, Y: n.Position.Y}
		}
		if err := m.CreateNode(ctx, n.Key, n.Operation, at); err != nil {
			return err
		}
	}
	for _, e := range g.Edges {
		if _, err := m.CreateEdge(ctx, e.Source, e.Target, e.Port); err != nil {
			return err
		}
	}
	ctxlog.FromContext(ctx).Debug("Graph loaded.", "nodes", len(g.Nodes), "edges", len(g.Edges))
	return nil
}

// Colimit compiles nodeID in default mode against a fresh snapshot.
func (m *Manager) Colimit(ctx context.Context, nodeID string) (colimit.Map, error) {
	cm, err := m.evaluator.Colimit(m.topology.Snapshot(ctx), nodeID)
	if err != nil {
		return nil, fmt.Errorf("colimit at '%s': %w", nodeID, err)
	}
	ctxlog.FromContext(ctx).Debug("Colimit compiled.", "node", nodeID, "closure", len(cm))
	return cm, nil
}

// ColimitOpen compiles nodeID in open-port mode against a fresh snapshot.
func (m *Manager) ColimitOpen(ctx context.Context, nodeID string) (colimit.Map, []colimit.Port, error) {
	cm, err := m.evaluator.ColimitOpen(m.topology.Snapshot(ctx), nodeID)
	if err != nil {
		return nil, nil, fmt.Errorf("colimit at '%s': %w", nodeID, err)
	}
	ports, err := colimit.Ports(cm[nodeID])
	if err != nil {
		return nil, nil, fmt.Errorf("colimit at '%s': %w", nodeID, err)
	}
	return cm, ports, nil
}

// Evaluate compiles and calls the colimit at nodeID.
func (m *Manager) Evaluate(ctx context.Context, nodeID string, args ...cty.Value) (cty.Value, error) {
	var (
		cm  colimit.Map
		err error
	)
	if len(args) == 0 {
		cm, err = m.Colimit(ctx, nodeID)
	} else {
		var ports []colimit.Port
		cm, ports, err = m.ColimitOpen(ctx, nodeID)
		if err == nil && len(ports) != len(args) {
			err = fmt.Errorf("node '%s' has %d open port(s) but %d argument(s) were given", nodeID, len(ports), len(args))
		}
	}
	if err != nil {
		return cty.NilVal, err
	}

	v, err := cm[nodeID].Call(args)
	if err != nil {
		return cty.NilVal, err
	}
	ctxlog.FromContext(ctx).Debug("Node evaluated.", "node", nodeID, "type", v.Type().FriendlyName())
	return v, nil
}

// Inspect reports the closure, terminals, descendants and open ports of a
// node, all computed from one snapshot.
func (m *Manager) Inspect(ctx context.Context, nodeID string) (*Inspection, error) {
	snap := m.topology.Snapshot(ctx)
	attrs, ok := snap.Node(nodeID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", dag.ErrNodeNotFound, nodeID)
	}

	up, err := snap.UpstreamClosure(nodeID)
	if err != nil {
		return nil, err
	}
	order, err := snap.TopologicalSortOf(up)
	if err != nil {
		return nil, err
	}
	terminals, err := snap.TerminalAncestors(order)
	if err != nil {
		return nil, err
	}
	down, err := snap.Descendants([]string{nodeID})
	if err != nil {
		return nil, err
	}

	cm, err := m.evaluator.ColimitOpen(snap, nodeID)
	if err != nil {
		return nil, err
	}
	ports, err := colimit.Ports(cm[nodeID])
	if err != nil {
		return nil, err
	}
	defaults, err := m.evaluator.PortDefaults(snap, ports)
	if err != nil {
		return nil, err
	}

	return &Inspection{
		Node:        nodeID,
		Operation:   attrs.Operation,
		Upstream:    order,
		Terminals:   terminals,
		Descendants: down.Keys(),
		Ports:       ports,
		Defaults:    defaults,
	}, nil
}

// Snapshot returns an immutable copy of the topology.
func (m *Manager) Snapshot(ctx context.Context) *dag.Graph {
	return m.topology.Snapshot(ctx)
}

// Layout returns a copy of the canvas layout.
func (m *Manager) Layout(ctx context.Context) nodestore.Layout {
	return m.layout.All(ctx)
}

// SubscribeStructure subscribes to topology snapshots.
func (m *Manager) SubscribeStructure(fn topologystore.Listener) func() {
	return m.topology.Subscribe(fn)
}

// SubscribeLayout subscribes to layout snapshots.
func (m *Manager) SubscribeLayout(fn nodestore.Listener) func() {
	return m.layout.Subscribe(fn)
}

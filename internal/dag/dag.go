package dag

import (
	"fmt"
	"sort"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
		edges: make(map[string]*Edge),
	}
}

// AddNode adds a node with the given key and attributes.
func (g *Graph) AddNode(key string, attrs NodeAttributes) error {
	if key == "" {
		return fmt.Errorf("node key must not be empty")
	}
	if _, ok := g.nodes[key]; ok {
		return fmt.Errorf("%w: %s", ErrNodeExists, key)
	}

	g.nodes[key] = &node{
		key:   key,
		attrs: attrs,
		in:    make(map[string]*Edge),
		out:   make(map[string]*Edge),
	}
	return nil
}

// SetOperation replaces the operator name of an existing node.
func (g *Graph) SetOperation(key, operation string) error {
	n, ok := g.nodes[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, key)
	}
	n.attrs.Operation = operation
	return nil
}

// DropNode removes a node together with every edge it is the source or the
// target of.
func (g *Graph) DropNode(key string) error {
	n, ok := g.nodes[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, key)
	}

	for id, e := range n.in {
		delete(g.nodes[e.Source].out, id)
		delete(g.edges, id)
	}
	for id, e := range n.out {
		delete(g.nodes[e.Target].in, id)
		delete(g.edges, id)
	}
	delete(g.nodes, key)
	return nil
}

// AddEdge connects the output of source to input port `port` of target and
// returns the new edge's ID. An error is returned if either node does not
// exist, the port is negative, the edge would be a self-reference, or the
// exact same connection already exists.
func (g *Graph) AddEdge(source, target string, port int) (string, error) {
	if source == target {
		return "", fmt.Errorf("self-referential edge not allowed: %s -> %s", source, target)
	}
	if port < 0 {
		return "", fmt.Errorf("invalid port %d on edge %s -> %s", port, source, target)
	}

	src, ok := g.nodes[source]
	if !ok {
		return "", fmt.Errorf("source %w: %s", ErrNodeNotFound, source)
	}
	dst, ok := g.nodes[target]
	if !ok {
		return "", fmt.Errorf("destination %w: %s", ErrNodeNotFound, target)
	}

	id := edgeID(source, target, port)
	if _, exists := g.edges[id]; exists {
		return "", fmt.Errorf("%w: %s", ErrEdgeExists, id)
	}

	e := &Edge{ID: id, Source: source, Target: target, TargetPort: port}
	g.edges[id] = e
	src.out[id] = e
	dst.in[id] = e
	return id, nil
}

// DropEdge removes every edge running from source to target.
func (g *Graph) DropEdge(source, target string) error {
	src, ok := g.nodes[source]
	if !ok {
		return fmt.Errorf("source %w: %s", ErrNodeNotFound, source)
	}
	dst, ok := g.nodes[target]
	if !ok {
		return fmt.Errorf("destination %w: %s", ErrNodeNotFound, target)
	}

	dropped := 0
	for id, e := range src.out {
		if e.Target != target {
			continue
		}
		delete(src.out, id)
		delete(dst.in, id)
		delete(g.edges, id)
		dropped++
	}
	if dropped == 0 {
		return fmt.Errorf("%w: %s -> %s", ErrEdgeNotFound, source, target)
	}
	return nil
}

// HasNode reports whether key names a node in the graph.
func (g *Graph) HasNode(key string) bool {
	_, ok := g.nodes[key]
	return ok
}

// Node returns the attributes of the node with the given key.
func (g *Graph) Node(key string) (NodeAttributes, bool) {
	n, ok := g.nodes[key]
	if !ok {
		return NodeAttributes{}, false
	}
	return n.attrs, true
}

// Nodes returns all node keys in lexicographic order.
func (g *Graph) Nodes() []string {
	keys := make([]string, 0, len(g.nodes))
	for k := range g.nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Edges returns a copy of every edge, ordered by edge ID.
func (g *Graph) Edges() []Edge {
	return sortedEdges(g.edges)
}

// InEdges returns copies of the edges targeting key, ordered by edge ID.
func (g *Graph) InEdges(key string) ([]Edge, error) {
	n, ok := g.nodes[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, key)
	}
	return sortedEdges(n.in), nil
}

// OutEdges returns copies of the edges leaving key, ordered by edge ID.
func (g *Graph) OutEdges(key string) ([]Edge, error) {
	n, ok := g.nodes[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, key)
	}
	return sortedEdges(n.out), nil
}

// InDegree returns the number of edges targeting key.
func (g *Graph) InDegree(key string) (int, error) {
	n, ok := g.nodes[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNodeNotFound, key)
	}
	return len(n.in), nil
}

// OutDegree returns the number of edges leaving key.
func (g *Graph) OutDegree(key string) (int, error) {
	n, ok := g.nodes[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNodeNotFound, key)
	}
	return len(n.out), nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Clone returns a deep copy of the graph that shares no mutable state with g.
func (g *Graph) Clone() *Graph {
	c := New()
	for key, n := range g.nodes {
		c.nodes[key] = &node{
			key:   key,
			attrs: n.attrs,
			in:    make(map[string]*Edge, len(n.in)),
			out:   make(map[string]*Edge, len(n.out)),
		}
	}
	for id, e := range g.edges {
		ec := *e
		c.edges[id] = &ec
		c.nodes[ec.Source].out[id] = &ec
		c.nodes[ec.Target].in[id] = &ec
	}
	return c
}

func sortedEdges(m map[string]*Edge) []Edge {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	edges := make([]Edge, len(ids))
	for i, id := range ids {
		edges[i] = *m[id]
	}
	return edges
}

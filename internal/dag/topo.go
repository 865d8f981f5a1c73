package dag

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// TopologicalSort orders every node so that each one comes strictly after
// all of its ancestors. Ties are broken by node key, which makes the order
// deterministic for a given graph. A *CycleError is returned when the graph
// is not acyclic.
func (g *Graph) TopologicalSort() ([]string, error) {
	return g.sort(nil)
}

// TopologicalSortOf orders the nodes of set the same way TopologicalSort
// does, considering only edges whose both ends are in set. Cycles among nodes
// outside set do not affect the result.
func (g *Graph) TopologicalSortOf(set Set) ([]string, error) {
	return g.sort(set)
}

// DetectCycles returns a *CycleError if the graph contains a cycle.
func (g *Graph) DetectCycles() error {
	_, err := g.TopologicalSort()
	return err
}

// sort orders the sub-graph induced by within, or the whole graph when
// within is nil.
func (g *Graph) sort(within Set) ([]string, error) {
	keys := make([]string, 0, len(g.nodes))
	for key := range g.nodes {
		if within == nil || within.Has(key) {
			keys = append(keys, key)
		}
	}
	// IDs follow key order, so ordering by ID is ordering by key.
	sort.Strings(keys)
	ids := make(map[string]int64, len(keys))
	for i, key := range keys {
		ids[key] = int64(i)
	}

	dg := simple.NewDirectedGraph()
	for _, key := range keys {
		dg.AddNode(simple.Node(ids[key]))
	}
	for _, e := range g.edges {
		from, ok := ids[e.Source]
		if !ok {
			continue
		}
		to, ok := ids[e.Target]
		if !ok {
			continue
		}
		// Parallel edges collapse into one line; ordering only needs one.
		dg.SetEdge(dg.NewEdge(simple.Node(from), simple.Node(to)))
	}

	sorted, err := topo.SortStabilized(dg, byID)
	if err != nil {
		var unorderable topo.Unorderable
		if !errors.As(err, &unorderable) {
			return nil, err
		}
		var stuck []string
		for _, component := range unorderable {
			for _, n := range component {
				stuck = append(stuck, keys[n.ID()])
			}
		}
		sort.Strings(stuck)
		return nil, &CycleError{Nodes: stuck}
	}

	order := make([]string, len(sorted))
	for i, n := range sorted {
		order[i] = keys[n.ID()]
	}
	return order, nil
}

func byID(nodes []graph.Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
}

package dag

import "fmt"

// UpstreamClosure returns every node reachable from key by repeatedly
// following incoming edges backwards, including key itself.
func (g *Graph) UpstreamClosure(key string) (Set, error) {
	if _, ok := g.nodes[key]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, key)
	}

	visited := make(Set)
	stack := []string{key}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited.Has(current) {
			continue
		}
		visited[current] = struct{}{}
		for _, e := range g.nodes[current].in {
			stack = append(stack, e.Source)
		}
	}
	return visited, nil
}

// TerminalAncestors filters keys down to the nodes without incoming edges,
// i.e. the sources that need external input. The order of keys is kept.
func (g *Graph) TerminalAncestors(keys []string) ([]string, error) {
	var terminals []string
	for _, key := range keys {
		n, ok := g.nodes[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, key)
		}
		if len(n.in) == 0 {
			terminals = append(terminals, key)
		}
	}
	return terminals, nil
}

// Descendants returns every node reachable from any of keys by following
// outgoing edges, excluding the input keys themselves.
func (g *Graph) Descendants(keys []string) (Set, error) {
	visited := make(Set, len(keys))
	stack := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := g.nodes[key]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, key)
		}
		// Seeds count as visited so that they never re-enter the stack.
		visited[key] = struct{}{}
		stack = append(stack, key)
	}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range g.nodes[current].out {
			if visited.Has(e.Target) {
				continue
			}
			visited[e.Target] = struct{}{}
			stack = append(stack, e.Target)
		}
	}

	for _, key := range keys {
		delete(visited, key)
	}
	return visited, nil
}

package dag

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNodeNotFound is returned when a key does not name a node in the graph.
	ErrNodeNotFound = errors.New("node not found")
	// ErrNodeExists is returned when adding a node whose key is already taken.
	ErrNodeExists = errors.New("node already exists")
	// ErrEdgeExists is returned when the same source, target and port are
	// connected twice.
	ErrEdgeExists = errors.New("edge already exists")
	// ErrEdgeNotFound is returned when no edge connects the given pair.
	ErrEdgeNotFound = errors.New("edge not found")
)

// NodeAttributes is the user-visible payload of a node.
type NodeAttributes struct {
	// Operation is the name of an entry in the operator registry.
	Operation string
}

// Edge feeds the output of Source into input port TargetPort of Target.
type Edge struct {
	ID         string
	Source     string
	Target     string
	TargetPort int
}

// edgeID derives the canonical identifier of an edge. Keys are quoted, so
// distinct (source, target, port) triples never share an ID whatever the keys
// contain. IDs of one target sort by source.
func edgeID(source, target string, port int) string {
	return fmt.Sprintf("%q->%q[%d]", source, target, port)
}

// Graph is a directed multigraph of operator nodes. The zero value is not
// usable; create graphs with New.
type Graph struct {
	// nodes stores all nodes in the graph, keyed by their unique key.
	nodes map[string]*node
	// edges stores all edges, keyed by edge ID.
	edges map[string]*Edge
}

// node represents a single vertex in the graph. It is un-exported so that
// callers go through the Graph API using string keys.
type node struct {
	key   string
	attrs NodeAttributes
	// in holds the incoming edges keyed by edge ID.
	in map[string]*Edge
	// out holds the outgoing edges keyed by edge ID.
	out map[string]*Edge
}

// Set is an unordered collection of node keys.
type Set map[string]struct{}

// NewSet builds a set from the given keys.
func NewSet(keys ...string) Set {
	s := make(Set, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether key is a member of the set.
func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Keys returns the members in lexicographic order.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CycleError reports that no evaluation order exists for a set of nodes.
type CycleError struct {
	// Nodes are the keys of every strongly connected component that could
	// not be ordered, sorted.
	Nodes []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected involving nodes: %s", strings.Join(e.Nodes, ", "))
}

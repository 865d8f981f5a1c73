// Package dag holds the directed graph that operators are wired into, along
// with the read-only traversal queries the colimit evaluator is built on.
//
// Nodes are identified by string keys and carry the name of the operator they
// apply. Edges run from a source node into a numbered input port of a target
// node. The graph itself is a plain data structure: it performs no locking,
// so its owner (see internal/inmemorytopology) serializes mutations and hands
// readers an immutable Clone.
//
// All traversals use an explicit stack rather than recursion, so arbitrarily
// deep graphs do not exhaust the goroutine stack.
package dag

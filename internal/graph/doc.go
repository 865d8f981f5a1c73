// Package graph provides a unified facade over the structure of an operator
// graph, its canvas layout and the colimit evaluator.
//
// # Why Graph Package Exists
//
// Editing a patch touches two stores: the topology (what composes with
// what) and the layout (where nodes are drawn). Creating a node must add it
// to both, destroying one must remove it from both, and compiling a colimit
// must read a consistent snapshot of the topology. The Manager coordinates
// these so callers work with node keys and never with the stores directly.
//
// # Architecture: The Facade Pattern
//
//	┌─────────────────────────────────────┐
//	│           Graph Facade              │
//	│  (create/destroy/wire nodes,        │
//	│   compile and evaluate colimits)    │
//	└──────┬─────────────┬──────────┬─────┘
//	       │             │          │
//	       ▼             ▼          ▼
//	┌────────────┐ ┌──────────┐ ┌──────────┐
//	│  Topology  │ │  Layout  │ │ Colimit  │
//	│   Store    │ │  Store   │ │Evaluator │
//	└────────────┘ └──────────┘ └──────────┘
//
// **Topology Store** (topologystore.Store) owns nodes and edges and hands out
// immutable snapshots.
//
// **Layout Store** (nodestore.Store) owns widget positions. It has no bearing
// on composition.
//
// **Colimit Evaluator** (colimit.Evaluator) compiles functions from a
// snapshot. It never runs under a store lock.
//
// # Validation
//
// The Manager resolves operator names when nodes are created or changed and
// checks port numbers against the target's arity when edges are created, so
// most wiring mistakes are rejected at edit time. The evaluator repeats these
// checks at compile time for graphs assembled by other means.
//
// # Thread-Safety
//
// All Manager methods are safe for concurrent use; each mutation is atomic
// in the store it touches. A node creation or destruction spans both stores
// and is not atomic across them.
package graph

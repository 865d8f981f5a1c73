// Package topologystore defines the interface for owning the structure of an
// operator graph: its nodes, the operation each applies, and the edges that
// feed outputs into input ports.
//
// # Why Topology Store Exists
//
// The topology store is the single write path for the graph. It isolates the
// structure that composition depends on from the UI-only layout records kept
// by nodestore, so that moving a node on a canvas never touches the data the
// colimit evaluator reads.
//
// # Read Discipline
//
// Readers never see the live graph. Snapshot returns an immutable deep copy,
// and subscribers receive a fresh copy after every successful mutation. A
// colimit therefore always compiles against a consistent graph, however many
// writers are active.
//
// # Notification Contract
//
// Subscribe delivers the current snapshot immediately, then one snapshot per
// successful mutation, synchronously, in mutation order. Failed mutations
// change nothing and publish nothing. Callbacks run on the mutating goroutine
// and must not mutate the store themselves.
package topologystore

import (
	"context"
	"errors"

	"github.com/vk/patchgrid/internal/dag"
)

// ErrPortOccupied is returned when an edge targets an input port that is
// already fed by another edge.
var ErrPortOccupied = errors.New("input port already connected")

// Listener receives graph snapshots. The graph must be treated as read-only.
type Listener func(g *dag.Graph)

// Store is the interface for managing the topology of an operator graph.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent use. Every mutation is
// individually atomic; there are no multi-step transactions.
//
// # Typical Implementation
//
// See internal/inmemorytopology for the reference in-memory implementation
// built on dag.Graph and sync.RWMutex.
type Store interface {
	// AddNode adds a node applying the named operation.
	//
	// Returns an error wrapping dag.ErrNodeExists if the key is taken. The
	// operation name is not resolved here; an unknown operator surfaces when a
	// colimit touching the node is compiled.
	AddNode(ctx context.Context, key string, attrs dag.NodeAttributes) error

	// RemoveNode removes a node and every edge it is the source or target of.
	//
	// Colimits compiled earlier keep working on the snapshot they were built
	// from; any later colimit will not reference the removed node.
	RemoveNode(ctx context.Context, key string) error

	// SetOperation changes the operator applied at an existing node.
	SetOperation(ctx context.Context, key, operation string) error

	// AddEdge feeds the output of source into input port `port` of target and
	// returns the new edge's ID.
	//
	// Returns ErrPortOccupied if another edge already feeds that port. The
	// store does not check that the port exists on the target's operator; that
	// is validated at composition time.
	AddEdge(ctx context.Context, source, target string, port int) (string, error)

	// RemoveEdge removes every edge running from source to target.
	RemoveEdge(ctx context.Context, source, target string) error

	// Snapshot returns an immutable copy of the current graph.
	Snapshot(ctx context.Context) *dag.Graph

	// Subscribe registers fn to receive snapshots and returns a function that
	// cancels the subscription. See the package documentation for the
	// delivery contract.
	Subscribe(fn Listener) (unsubscribe func())
}

// Package nodestore defines the interface for storing the layout of nodes on
// an editor canvas.
//
// # Why Node Store Exists
//
// Layout is presentation state: where each node sits and how large it is
// drawn. It is kept apart from the structure owned by topologystore so that
// dragging nodes around never produces a new graph snapshot and never
// invalidates a compiled colimit. Nothing in the composition path reads it.
//
// # Notification Contract
//
// Subscribe follows the same rules as topologystore: the current layout is
// delivered immediately, then a fresh copy after every mutation, synchronously
// and in mutation order.
package nodestore

import "context"

// Point is a position or size on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the component-wise sum of p and d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Widget is the layout record of a single node.
type Widget struct {
	Position   Point `json:"position"`
	Dimensions Point `json:"dimensions"`
}

// Layout maps node keys to their widgets.
type Layout map[string]Widget

// Clone returns a copy of l that shares no state with it.
func (l Layout) Clone() Layout {
	c := make(Layout, len(l))
	for k, w := range l {
		c[k] = w
	}
	return c
}

// Listener receives layout snapshots.
type Listener func(l Layout)

// Store is the interface for managing node layout.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent use.
//
// # Typical Implementation
//
// See internal/inmemorystore for the reference in-memory implementation.
type Store interface {
	// Place sets the widget of a node, replacing any previous record.
	Place(ctx context.Context, key string, w Widget) error

	// Remove deletes the record of a node. Removing a key without a record is
	// not an error.
	Remove(ctx context.Context, key string) error

	// Displace moves nodes by the given deltas in one step. Keys without a
	// record are ignored.
	Displace(ctx context.Context, deltas map[string]Point) error

	// Get returns the widget of a node.
	Get(ctx context.Context, key string) (Widget, bool)

	// All returns a copy of the full layout.
	All(ctx context.Context) Layout

	// Subscribe registers fn to receive layout snapshots and returns a
	// function that cancels the subscription.
	Subscribe(fn Listener) (unsubscribe func())
}

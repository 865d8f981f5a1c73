package inmemorytopology

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/patchgrid/internal/ctxlog"
	"github.com/vk/patchgrid/internal/dag"
	"github.com/vk/patchgrid/internal/topologystore"
)

// Store implements the topologystore.Store interface.
type Store struct {
	// notifyMu serializes mutations together with their notifications, so
	// listeners observe snapshots in mutation order.
	notifyMu sync.Mutex

	mu    sync.RWMutex
	graph *dag.Graph

	listeners map[int]topologystore.Listener
	nextID    int
}

// New creates a new, empty in-memory topology store.
func New() *Store {
	return &Store{
		graph:     dag.New(),
		listeners: make(map[int]topologystore.Listener),
	}
}

var _ topologystore.Store = (*Store)(nil)

// mutate applies fn under the write lock and, if it succeeds, publishes a
// snapshot of the result to every listener.
func (s *Store) mutate(ctx context.Context, op string, fn func(g *dag.Graph) error) error {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if err := fn(s.graph); err != nil {
		s.mu.Unlock()
		return err
	}
	snapshot := s.graph.Clone()
	listeners := make([]topologystore.Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	ctxlog.FromContext(ctx).Debug("Topology changed.", "op", op, "nodes", snapshot.Len(), "listeners", len(listeners))
	for _, l := range listeners {
		l(snapshot)
	}
	return nil
}

// AddNode adds a new node to the store.
func (s *Store) AddNode(ctx context.Context, key string, attrs dag.NodeAttributes) error {
	return s.mutate(ctx, "add_node", func(g *dag.Graph) error {
		return g.AddNode(key, attrs)
	})
}

// RemoveNode removes a node and cascades its edges.
func (s *Store) RemoveNode(ctx context.Context, key string) error {
	return s.mutate(ctx, "remove_node", func(g *dag.Graph) error {
		return g.DropNode(key)
	})
}

// SetOperation changes the operator of a node.
func (s *Store) SetOperation(ctx context.Context, key, operation string) error {
	return s.mutate(ctx, "set_operation", func(g *dag.Graph) error {
		return g.SetOperation(key, operation)
	})
}

// AddEdge connects source to a port of target.
func (s *Store) AddEdge(ctx context.Context, source, target string, port int) (string, error) {
	var id string
	err := s.mutate(ctx, "add_edge", func(g *dag.Graph) error {
		in, err := g.InEdges(target)
		if err != nil {
			return fmt.Errorf("destination %w", err)
		}
		for _, e := range in {
			if e.TargetPort == port {
				return fmt.Errorf("%w: port %d of '%s' is fed by '%s'", topologystore.ErrPortOccupied, port, target, e.Source)
			}
		}
		id, err = g.AddEdge(source, target, port)
		return err
	})
	return id, err
}

// RemoveEdge removes all edges from source to target.
func (s *Store) RemoveEdge(ctx context.Context, source, target string) error {
	return s.mutate(ctx, "remove_edge", func(g *dag.Graph) error {
		return g.DropEdge(source, target)
	})
}

// Snapshot returns a deep copy of the current graph.
func (s *Store) Snapshot(ctx context.Context) *dag.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph.Clone()
}

// Subscribe registers fn and immediately delivers the current snapshot.
func (s *Store) Subscribe(fn topologystore.Listener) func() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	snapshot := s.graph.Clone()
	s.mu.Unlock()

	fn(snapshot)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
		})
	}
}

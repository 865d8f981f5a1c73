package inmemorystore

import (
	"context"
	"sync"

	"github.com/vk/patchgrid/internal/ctxlog"
	"github.com/vk/patchgrid/internal/nodestore"
)

// Store is an in-memory implementation of nodestore.Store.
type Store struct {
	notifyMu sync.Mutex

	mu        sync.RWMutex
	widgets   nodestore.Layout
	listeners map[int]nodestore.Listener
	nextID    int
}

// New creates a new, empty in-memory layout store.
func New() *Store {
	return &Store{
		widgets:   make(nodestore.Layout),
		listeners: make(map[int]nodestore.Listener),
	}
}

var _ nodestore.Store = (*Store)(nil)

func (s *Store) mutate(ctx context.Context, op string, fn func(l nodestore.Layout)) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	fn(s.widgets)
	snapshot := s.widgets.Clone()
	listeners := make([]nodestore.Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	ctxlog.FromContext(ctx).Debug("Layout changed.", "op", op, "widgets", len(snapshot))
	for _, l := range listeners {
		l(snapshot)
	}
}

// Place sets the widget of a node.
func (s *Store) Place(ctx context.Context, key string, w nodestore.Widget) error {
	s.mutate(ctx, "place", func(l nodestore.Layout) {
		l[key] = w
	})
	return nil
}

// Remove deletes the record of a node.
func (s *Store) Remove(ctx context.Context, key string) error {
	s.mutate(ctx, "remove", func(l nodestore.Layout) {
		delete(l, key)
	})
	return nil
}

// Displace moves every known node by its delta.
func (s *Store) Displace(ctx context.Context, deltas map[string]nodestore.Point) error {
	s.mutate(ctx, "displace", func(l nodestore.Layout) {
		for key, d := range deltas {
			w, ok := l[key]
			if !ok {
				continue
			}
			w.Position = w.Position.Add(d)
			l[key] = w
		}
	})
	return nil
}

// Get returns the widget of a node.
func (s *Store) Get(ctx context.Context, key string) (nodestore.Widget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.widgets[key]
	return w, ok
}

// All returns a copy of the full layout.
func (s *Store) All(ctx context.Context) nodestore.Layout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.widgets.Clone()
}

// Subscribe registers fn and immediately delivers the current layout.
func (s *Store) Subscribe(fn nodestore.Listener) func() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	snapshot := s.widgets.Clone()
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

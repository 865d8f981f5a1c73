package publish

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/patchgrid/internal/graph"
	"github.com/vk/patchgrid/internal/inmemorystore"
	"github.com/vk/patchgrid/internal/inmemorytopology"
	"github.com/vk/patchgrid/internal/nodestore"
	"github.com/vk/patchgrid/internal/registry"
	"github.com/vk/patchgrid/modules/scalar"
)

type event struct {
	name    string
	payload any
}

type recorder struct {
	mu     sync.Mutex
	events []event
}

func (r *recorder) emit(name string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{name: name, payload: payload})
}

func (r *recorder) last(name string) (any, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	var payload any
	for _, e := range r.events {
		if e.name == name {
			count++
			payload = e.payload
		}
	}
	return payload, count
}

func newManager(t *testing.T) *graph.Manager {
	t.Helper()
	r := registry.New()
	(&scalar.Module{}).Register(r)
	return graph.New(inmemorytopology.New(), inmemorystore.New(), r)
}

func TestPublisher_EmitsSnapshots(t *testing.T) {
	ctx := context.Background()
	g := newManager(t)
	require.NoError(t, g.CreateNode(ctx, "a", "add", nil))

	rec := &recorder{}
	p := New(rec.emit)
	require.NoError(t, p.Attach(ctx, g))

	// Attaching emits the current state.
	payload, n := rec.last(EventStructure)
	require.Equal(t, 1, n)
	want := Structure{
		Nodes: []NodePayload{{Key: "a", Operation: "add"}},
		Edges: []EdgePayload{},
	}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Errorf("initial structure mismatch (-want +got):\n%s", diff)
	}
	_, n = rec.last(EventLayout)
	require.Equal(t, 1, n)

	require.NoError(t, g.CreateNode(ctx, "b", "multiply", &nodestore.Point{X: 10, Y: 20}))
	_, err := g.CreateEdge(ctx, "a", "b", 1)
	require.NoError(t, err)

	payload, _ = rec.last(EventStructure)
	want = Structure{
		Nodes: []NodePayload{{Key: "a", Operation: "add"}, {Key: "b", Operation: "multiply"}},
		Edges: []EdgePayload{{ID: `"a"->"b"[1]`, Source: "a", Target: "b", Port: 1}},
	}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Errorf("structure mismatch (-want +got):\n%s", diff)
	}

	layout, _ := rec.last(EventLayout)
	widgets, ok := layout.(map[string]nodestore.Widget)
	require.True(t, ok)
	require.Contains(t, widgets, "b")
	assert.Equal(t, nodestore.Point{X: 10, Y: 20}, widgets["b"].Position)
}

func TestPublisher_FailedMutationPublishesNothing(t *testing.T) {
	ctx := context.Background()
	g := newManager(t)
	require.NoError(t, g.CreateNode(ctx, "a", "add", nil))

	rec := &recorder{}
	p := New(rec.emit)
	require.NoError(t, p.Attach(ctx, g))
	_, before := rec.last(EventStructure)

	_, err := g.CreateEdge(ctx, "a", "missing", 0)
	require.Error(t, err)

	_, after := rec.last(EventStructure)
	assert.Equal(t, before, after)
}

func TestPublisher_Close(t *testing.T) {
	ctx := context.Background()
	g := newManager(t)

	rec := &recorder{}
	p := New(rec.emit)
	require.NoError(t, p.Attach(ctx, g))
	_, before := rec.last(EventStructure)

	p.Close()
	p.Close()
	require.NoError(t, g.CreateNode(ctx, "a", "add", nil))

	_, after := rec.last(EventStructure)
	assert.Equal(t, before, after, "no events after Close")
	assert.ErrorIs(t, p.Attach(ctx, g), ErrClosed)
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), Options{URL: "not a url"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme and host are required")
}

func TestConnect_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Connect(ctx, Options{URL: "http://127.0.0.1:1", ConnectTimeout: 500 * time.Millisecond})
	require.Error(t, err)
}

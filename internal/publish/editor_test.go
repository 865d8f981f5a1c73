package publish

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/patchgrid/internal/nodestore"
	"github.com/vk/patchgrid/internal/testutil"
)

// inbox stands in for a socket: it keeps handlers by event so tests can
// deliver payloads shaped the way the Socket.IO decoder produces them.
type inbox struct {
	mu       sync.Mutex
	handlers map[string]func(data ...any)
}

func (in *inbox) on(event string, handler func(data ...any)) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.handlers == nil {
		in.handlers = make(map[string]func(data ...any))
	}
	in.handlers[event] = handler
}

func (in *inbox) deliver(t *testing.T, event string, data ...any) {
	t.Helper()
	in.mu.Lock()
	h, ok := in.handlers[event]
	in.mu.Unlock()
	require.True(t, ok, "no handler for %s", event)
	h(data...)
}

func TestPublisher_ListenAppliesEditorEvents(t *testing.T) {
	ctx := context.Background()
	g := newManager(t)

	rec := &recorder{}
	in := &inbox{}
	p := NewDuplex(rec.emit, in.on)
	require.NoError(t, p.Attach(ctx, g))
	require.NoError(t, p.Listen(ctx, g))
	assert.Len(t, in.handlers, len(InboundEvents))

	in.deliver(t, EventCreateNode, map[string]any{"key": "a", "operation": "add"})
	in.deliver(t, EventCreateNode, map[string]any{
		"key":       "b",
		"operation": "multiply",
		"position":  map[string]any{"x": 10.0, "y": 20.0},
	})
	in.deliver(t, EventCreateEdge, map[string]any{"source": "a", "target": "b", "port": 1.0})

	v, err := g.Evaluate(ctx, "b")
	require.NoError(t, err)
	testutil.AssertNumber(t, 4, v, "multiply(2, add(1, 1))")

	payload, _ := rec.last(EventStructure)
	structure := payload.(Structure)
	assert.Len(t, structure.Nodes, 2)
	assert.Len(t, structure.Edges, 1)

	in.deliver(t, EventDisplaceNodes, map[string]any{"b": map[string]any{"x": 5.0, "y": -5.0}})
	assert.Equal(t, nodestore.Point{X: 15, Y: 15}, g.Layout(ctx)["b"].Position)

	in.deliver(t, EventSetOperation, map[string]any{"key": "a", "operation": "subtract"})
	attrs, _ := g.Snapshot(ctx).Node("a")
	assert.Equal(t, "subtract", attrs.Operation)

	in.deliver(t, EventDestroyEdge, map[string]any{"source": "a", "target": "b"})
	assert.Empty(t, g.Snapshot(ctx).Edges())

	in.deliver(t, EventDestroyNode, map[string]any{"key": "a"})
	assert.Equal(t, []string{"b"}, g.Snapshot(ctx).Nodes())

	_, rejected := rec.last(EventRejected)
	assert.Zero(t, rejected)
}

func TestPublisher_HandleRejectsBadEdits(t *testing.T) {
	ctx := context.Background()
	g := newManager(t)
	require.NoError(t, g.CreateNode(ctx, "a", "add", nil))

	rec := &recorder{}
	p := New(rec.emit)

	testCases := []struct {
		name    string
		event   string
		data    []any
		wantErr string
	}{
		{"missing payload", EventCreateNode, nil, "createNode: missing payload"},
		{"unknown operator", EventCreateNode, []any{map[string]any{"key": "b", "operation": "teleport"}}, "not found"},
		{"payload of the wrong shape", EventCreateEdge, []any{"a->b"}, "createEdge: invalid payload"},
		{"self loop", EventCreateEdge, []any{map[string]any{"source": "a", "target": "a", "port": 0.0}}, "self-referential"},
		{"port beyond arity", EventCreateEdge, []any{map[string]any{"source": "a", "target": "a", "port": 2.0}}, "port 2"},
		{"unknown event", "explode", []any{map[string]any{}}, "unknown event 'explode'"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, before := rec.last(EventRejected)

			err := p.Handle(ctx, g, tc.event, tc.data...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)

			payload, after := rec.last(EventRejected)
			assert.Equal(t, before+1, after)
			assert.Equal(t, Rejection{Event: tc.event, Message: err.Error()}, payload)
		})
	}
	assert.Equal(t, []string{"a"}, g.Snapshot(ctx).Nodes())
}

func TestPublisher_ListenRequiresInbound(t *testing.T) {
	ctx := context.Background()
	assert.ErrorIs(t, New((&recorder{}).emit).Listen(ctx, newManager(t)), ErrNoInbound)

	p := NewDuplex((&recorder{}).emit, (&inbox{}).on)
	p.Close()
	assert.ErrorIs(t, p.Listen(ctx, newManager(t)), ErrClosed)
}

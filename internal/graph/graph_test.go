package graph

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/patchgrid/internal/colimit"
	"github.com/vk/patchgrid/internal/config"
	"github.com/vk/patchgrid/internal/dag"
	"github.com/vk/patchgrid/internal/inmemorystore"
	"github.com/vk/patchgrid/internal/inmemorytopology"
	"github.com/vk/patchgrid/internal/nodestore"
	"github.com/vk/patchgrid/internal/registry"
	"github.com/vk/patchgrid/internal/testutil"
	"github.com/vk/patchgrid/internal/topologystore"
	"github.com/vk/patchgrid/modules/logic"
	"github.com/vk/patchgrid/modules/scalar"
	"github.com/zclconf/go-cty/cty"
)

// createTestGraph creates a graph manager with in-memory stores for testing
func createTestGraph(t *testing.T) *Manager {
	t.Helper()
	r := registry.New()
	(&scalar.Module{}).Register(r)
	(&logic.Module{}).Register(r)
	return New(inmemorytopology.New(), inmemorystore.New(), r)
}

// abGraph builds the a -> b[0] scenario: add feeding multiply.
func abGraph(t *testing.T) *Manager {
	t.Helper()
	g := createTestGraph(t)
	ctx := context.Background()
	require.NoError(t, g.CreateNode(ctx, "a", "add", nil))
	require.NoError(t, g.CreateNode(ctx, "b", "multiply", &nodestore.Point{X: 200, Y: 40}))
	_, err := g.CreateEdge(ctx, "a", "b", 0)
	require.NoError(t, err)
	return g
}

func TestCreateNode(t *testing.T) {
	g := abGraph(t)
	ctx := context.Background()

	assert.Equal(t, []string{"a", "b"}, g.Snapshot(ctx).Nodes())
	assert.Equal(t, nodestore.Layout{
		"a": {},
		"b": {Position: nodestore.Point{X: 200, Y: 40}},
	}, g.Layout(ctx))

	err := g.CreateNode(ctx, "c", "teleport", nil)
	assert.ErrorIs(t, err, registry.ErrNotFound)
	assert.False(t, g.Snapshot(ctx).HasNode("c"))
	_, placed := g.Layout(ctx)["c"]
	assert.False(t, placed)

	err = g.CreateNode(ctx, "a", "abs", nil)
	assert.ErrorIs(t, err, dag.ErrNodeExists)
}

func TestCreateEdge_Validation(t *testing.T) {
	g := abGraph(t)
	ctx := context.Background()
	require.NoError(t, g.CreateNode(ctx, "c", "abs", nil))

	_, err := g.CreateEdge(ctx, "a", "c", 1)
	var portErr *colimit.PortError
	require.ErrorAs(t, err, &portErr)
	assert.Equal(t, 1, portErr.Arity)

	_, err = g.CreateEdge(ctx, "c", "b", 0)
	assert.ErrorIs(t, err, topologystore.ErrPortOccupied)

	_, err = g.CreateEdge(ctx, "a", "nowhere", 0)
	assert.ErrorIs(t, err, dag.ErrNodeNotFound)

	_, err = g.CreateEdge(ctx, "b", "b", 1)
	assert.ErrorContains(t, err, "self-referential edge")
}

func TestEvaluate_DefaultsAndOpenPorts(t *testing.T) {
	g := abGraph(t)
	ctx := context.Background()

	v, err := g.Evaluate(ctx, "b")
	require.NoError(t, err)
	testutil.AssertNumber(t, 6, v)

	v, err = g.Evaluate(ctx, "b", cty.NumberIntVal(4), cty.NumberIntVal(6), cty.NumberIntVal(-1))
	require.NoError(t, err)
	testutil.AssertNumber(t, -10, v)

	_, err = g.Evaluate(ctx, "b", cty.NumberIntVal(1))
	assert.ErrorContains(t, err, "has 3 open port(s) but 1 argument(s) were given")
}

func TestDestroyNode(t *testing.T) {
	g := abGraph(t)
	ctx := context.Background()

	require.NoError(t, g.DestroyNode(ctx, "a"))
	assert.Empty(t, g.Snapshot(ctx).Edges())
	_, placed := g.Layout(ctx)["a"]
	assert.False(t, placed)

	// b falls back to its own defaults: 2 * 3.
	cm, err := g.Colimit(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, cm.Keys())
	v, err := cm["b"].Call(nil)
	require.NoError(t, err)
	testutil.AssertNumber(t, 6, v)

	assert.ErrorIs(t, g.DestroyNode(ctx, "a"), dag.ErrNodeNotFound)
}

func TestCompiledColimitSurvivesLaterEdits(t *testing.T) {
	g := abGraph(t)
	ctx := context.Background()

	cm, err := g.Colimit(ctx, "b")
	require.NoError(t, err)

	require.NoError(t, g.DestroyNode(ctx, "a"))
	require.NoError(t, g.SetOperation(ctx, "b", "add"))

	v, err := cm["b"].Call(nil)
	require.NoError(t, err)
	testutil.AssertNumber(t, 6, v, "a compiled function keeps the snapshot it was built from")
}

func TestSetOperation(t *testing.T) {
	g := abGraph(t)
	ctx := context.Background()

	require.NoError(t, g.SetOperation(ctx, "b", "subtract"))
	v, err := g.Evaluate(ctx, "b")
	require.NoError(t, err)
	testutil.AssertNumber(t, 1, v) // (1+1) - 1

	_, err = g.CreateEdge(ctx, "a", "b", 1)
	require.NoError(t, err)
	err = g.SetOperation(ctx, "b", "abs")
	var portErr *colimit.PortError
	assert.ErrorAs(t, err, &portErr)

	assert.ErrorIs(t, g.SetOperation(ctx, "b", "nope"), registry.ErrNotFound)
	assert.ErrorIs(t, g.SetOperation(ctx, "zzz", "abs"), dag.ErrNodeNotFound)
}

func TestDestroyEdge(t *testing.T) {
	g := abGraph(t)
	ctx := context.Background()

	require.NoError(t, g.DestroyEdge(ctx, "a", "b"))
	assert.ErrorIs(t, g.DestroyEdge(ctx, "a", "b"), dag.ErrEdgeNotFound)
}

func TestDisplaceNodes(t *testing.T) {
	g := abGraph(t)
	ctx := context.Background()

	require.NoError(t, g.DisplaceNodes(ctx, map[string]nodestore.Point{"b": {X: -10, Y: 5}, "ghost": {X: 1}}))
	assert.Equal(t, nodestore.Point{X: 190, Y: 45}, g.Layout(ctx)["b"].Position)

	before := g.Snapshot(ctx)
	assert.Equal(t, before.Nodes(), g.Snapshot(ctx).Nodes(), "layout changes leave the topology alone")
}

func TestInspect(t *testing.T) {
	g := abGraph(t)
	ctx := context.Background()
	require.NoError(t, g.CreateNode(ctx, "c", "abs", nil))
	_, err := g.CreateEdge(ctx, "b", "c", 0)
	require.NoError(t, err)

	info, err := g.Inspect(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "multiply", info.Operation)
	assert.Equal(t, []string{"a", "b"}, info.Upstream)
	assert.Equal(t, []string{"a"}, info.Terminals)
	assert.Equal(t, []string{"c"}, info.Descendants)
	assert.Equal(t, []colimit.Port{{Node: "a", Index: 0}, {Node: "a", Index: 1}, {Node: "b", Index: 1}}, info.Ports)
	require.Len(t, info.Defaults, 3)
	testutil.AssertNumber(t, 3, info.Defaults[2])

	_, err = g.Inspect(ctx, "missing")
	assert.ErrorIs(t, err, dag.ErrNodeNotFound)
}

func TestLoad(t *testing.T) {
	g := createTestGraph(t)
	ctx := context.Background()

	err := g.Load(ctx, &config.Graph{
		Nodes: []*config.Node{
			{Key: "x", Operation: "greater"},
			{Key: "y", Operation: "not", Position: &config.Point{X: 3, Y: 4}},
		},
		Edges: []*config.Edge{{Source: "x", Target: "y", Port: 0}},
	})
	require.NoError(t, err)

	v, err := g.Evaluate(ctx, "y")
	require.NoError(t, err)
	assert.True(t, v.RawEquals(cty.False))
	assert.Equal(t, nodestore.Point{X: 3, Y: 4}, g.Layout(ctx)["y"].Position)

	assert.NoError(t, g.Load(ctx, nil))
}

func TestSubscriptions(t *testing.T) {
	g := createTestGraph(t)
	ctx := context.Background()

	var structures, layouts int
	defer g.SubscribeStructure(func(*dag.Graph) { structures++ })()
	defer g.SubscribeLayout(func(nodestore.Layout) { layouts++ })()

	require.NoError(t, g.CreateNode(ctx, "a", "add", nil))
	require.NoError(t, g.DisplaceNodes(ctx, map[string]nodestore.Point{"a": {X: 1}}))

	assert.Equal(t, 2, structures, "initial snapshot plus one node creation")
	assert.Equal(t, 3, layouts, "initial snapshot, placement and displacement")
}

func TestConcurrentEditsAndEvaluation(t *testing.T) {
	g := abGraph(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("n%02d", i)
			assert.NoError(t, g.CreateNode(ctx, key, "abs", nil))
			assert.NoError(t, g.DestroyNode(ctx, key))
		}(i)
		go func() {
			defer wg.Done()
			v, err := g.Evaluate(ctx, "b")
			if assert.NoError(t, err) {
				testutil.AssertNumber(t, 6, v)
			}
		}()
	}
	wg.Wait()
}

func TestConcurrentSetOperationAndCreateEdge(t *testing.T) {
	g := abGraph(t)
	ctx := context.Background()
	require.NoError(t, g.CreateNode(ctx, "c", "add", nil))

	arities := map[string]int{"abs": 1, "multiply": 2}
	portsInRange := func() {
		snap := g.Snapshot(ctx)
		attrs, _ := snap.Node("b")
		in, err := snap.InEdges("b")
		require.NoError(t, err)
		for _, e := range in {
			assert.Less(t, e.TargetPort, arities[attrs.Operation], "%s on %s", e.ID, attrs.Operation)
		}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			// Shrinking b to abs fails while c feeds port 1.
			_ = g.SetOperation(ctx, "b", "abs")
			_ = g.SetOperation(ctx, "b", "multiply")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if _, err := g.CreateEdge(ctx, "c", "b", 1); err == nil {
				assert.NoError(t, g.DestroyEdge(ctx, "c", "b"))
			}
		}
	}()
	for i := 0; i < 200; i++ {
		portsInRange()
	}
	wg.Wait()
	portsInRange()
}

package braid_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"braid"
	"braid/pkg/adapters/memory"
	"braid/pkg/domain"
	"braid/pkg/graph"
)

// calcGraph wires the worked example: c = a + b, e = c * d.
func calcGraph() *graph.Graph {
	g := graph.New()
	g.MustAdd(domain.Node{
		ID: "add",
		Func: func(ctx context.Context, args map[string]any) (any, error) {
			return args["a"].(float64) + args["b"].(float64), nil
		},
		Params:  []string{"a", "b"},
		Returns: []string{"c"},
	})
	g.MustAdd(domain.Node{
		ID: "multiply",
		Func: func(ctx context.Context, args map[string]any) (any, error) {
			return args["c"].(float64) * args["d"].(float64), nil
		},
		Params:  []string{"c", "d"},
		Returns: []string{"e"},
	})
	return g
}

func calcInputs() map[string]any {
	return map[string]any{"a": 2.0, "b": 3.0, "d": 10.0}
}

func TestCallWorkedExample(t *testing.T) {
	m, err := braid.New(calcGraph())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "d"}, m.Inputs())
	assert.Equal(t, []string{"e"}, m.Outputs())

	result, err := m.Call(context.Background(), calcInputs())
	require.NoError(t, err)
	assert.EqualValues(t, 50, result)
}

func TestStrategiesAgree(t *testing.T) {
	strategies := map[string][]braid.Option{
		"counted": nil,
		"plain":   {braid.WithPlain()},
		"durable": {braid.WithDurable(memory.NewStore())},
	}
	for name, opts := range strategies {
		t.Run(name, func(t *testing.T) {
			m, err := braid.New(calcGraph(), opts...)
			require.NoError(t, err)

			result, err := m.Call(context.Background(), calcInputs())
			require.NoError(t, err)
			assert.EqualValues(t, 50, result)
		})
	}
}

func TestCallIsRepeatable(t *testing.T) {
	m, err := braid.New(calcGraph())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		result, err := m.Call(context.Background(), calcInputs())
		require.NoError(t, err)
		assert.EqualValues(t, 50, result)
	}
}

func TestExtraOutputs(t *testing.T) {
	// Requesting the intermediate alongside the sink returns both, in
	// sorted order.
	m, err := braid.New(calcGraph(), braid.WithExtraOutputs("c"))
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "e"}, m.Outputs())

	result, err := m.Call(context.Background(), calcInputs())
	require.NoError(t, err)
	assert.Equal(t, []any{5.0, 50.0}, result)
}

func TestExtraOutputCanBeAnInput(t *testing.T) {
	m, err := braid.New(calcGraph(), braid.WithExtraOutputs("d"))
	require.NoError(t, err)

	result, err := m.Call(context.Background(), calcInputs())
	require.NoError(t, err)
	assert.Equal(t, []any{10.0, 50.0}, result)
}

func TestUnknownExtraOutput(t *testing.T) {
	_, err := braid.New(calcGraph(), braid.WithExtraOutputs("zap"))
	assert.ErrorIs(t, err, domain.ErrUnknownOutput)
}

func TestEmptyGraphHasNoOutputs(t *testing.T) {
	_, err := braid.New(graph.New())
	assert.ErrorIs(t, err, domain.ErrNoOutputs)
}

func TestCallChecksSignature(t *testing.T) {
	m, err := braid.New(calcGraph())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = m.Call(ctx, map[string]any{"a": 2.0, "b": 3.0})
	assert.ErrorContains(t, err, `missing required input "d"`)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = m.Call(ctx, map[string]any{"a": 2.0, "b": 3.0, "d": 10.0, "z": 1.0})
	assert.ErrorContains(t, err, `unexpected input "z"`)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNodeFailureSurfacesNodeError(t *testing.T) {
	g := graph.New()
	g.MustAdd(domain.Node{
		ID: "explode",
		Func: func(context.Context, map[string]any) (any, error) {
			return nil, assert.AnError
		},
		Params:  []string{"a"},
		Returns: []string{"x"},
	})
	m, err := braid.New(g)
	require.NoError(t, err)

	_, err = m.Call(context.Background(), map[string]any{"a": 1.0})
	var nodeErr *domain.NodeError
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, "explode", nodeErr.NodeID)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestLifecycleHooks(t *testing.T) {
	var calls, starts []string
	hooks := domain.LifecycleHooks{
		OnCallStart: func(ctx context.Context, e *domain.CallEvent) {
			calls = append(calls, "start:"+e.Model)
		},
		OnCallEnd: func(ctx context.Context, e *domain.CallEvent) {
			calls = append(calls, "end:"+e.Model)
		},
		OnNodeStart: func(ctx context.Context, e *domain.NodeEvent) {
			starts = append(starts, e.NodeID)
		},
		OnNodeEnd: func(ctx context.Context, e *domain.NodeEvent) {
			assert.NoError(t, e.Err)
		},
	}

	m, err := braid.New(calcGraph(), braid.WithName("calc"), braid.WithLifecycleHooks(hooks))
	require.NoError(t, err)
	_, err = m.Call(context.Background(), calcInputs())
	require.NoError(t, err)

	assert.Equal(t, []string{"start:calc", "end:calc"}, calls)
	assert.Equal(t, []string{"add", "multiply"}, starts)
}

func TestDurableModelPersistsAcrossCalls(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	m, err := braid.New(calcGraph(), braid.WithName("calc"), braid.WithDurable(store))
	require.NoError(t, err)

	_, err = m.Call(ctx, calcInputs())
	require.NoError(t, err)
	_, err = m.Call(ctx, map[string]any{"a": 1.0, "b": 1.0, "d": 4.0})
	require.NoError(t, err)

	handle, err := store.Open(ctx)
	require.NoError(t, err)
	defer handle.Close()

	group, err := handle.OpenGroup(ctx, "calc_2")
	require.NoError(t, err)
	got, err := group.Read(ctx, "e")
	require.NoError(t, err)
	assert.EqualValues(t, 8, got)
}

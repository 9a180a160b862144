package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"braid/pkg/domain"
)

func noop(ctx context.Context, args map[string]any) (any, error) {
	return nil, nil
}

func node(id string, params, returns []string) domain.Node {
	return domain.Node{ID: id, Func: noop, Params: params, Returns: returns}
}

func TestAdd_Validation(t *testing.T) {
	tests := []struct {
		name    string
		node    domain.Node
		wantErr string
	}{
		{"empty id", domain.Node{Func: noop, Returns: []string{"x"}}, "node ID must not be empty"},
		{"no callable", domain.Node{ID: "a", Returns: []string{"x"}}, "no callable"},
		{"no returns", domain.Node{ID: "a", Func: noop}, "declares no returns"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			err := g.Add(tt.node)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAdd_DuplicateID(t *testing.T) {
	g := New()
	require.NoError(t, g.Add(node("a", nil, []string{"x"})))
	err := g.Add(node("a", nil, []string{"y"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate node ID")
}

func TestAdd_DuplicateProducer(t *testing.T) {
	g := New()
	require.NoError(t, g.Add(node("a", nil, []string{"x"})))
	err := g.Add(node("b", nil, []string{"x"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `value "x" produced by both`)
}

func TestPlan_TopologicalOrder(t *testing.T) {
	// Add nodes in reverse dependency order on purpose.
	g := New()
	g.MustAdd(node("sink", []string{"c", "d"}, []string{"e"}))
	g.MustAdd(node("mid", []string{"b"}, []string{"c", "d"}))
	g.MustAdd(node("root", []string{"a"}, []string{"b"}))

	plan, err := g.Plan()
	require.NoError(t, err)

	// Every parameter must be produced by an earlier node or be an
	// external input.
	available := make(map[string]bool)
	for _, in := range plan.Inputs() {
		available[in] = true
	}
	for _, n := range plan.Nodes() {
		for _, param := range n.Params {
			assert.True(t, available[param], "node %s ran before its parameter %s was produced", n.ID, param)
		}
		for _, ret := range n.Returns {
			available[ret] = true
		}
	}
}

func TestPlan_Deterministic(t *testing.T) {
	build := func() *Graph {
		g := New()
		g.MustAdd(node("left", []string{"a"}, []string{"l"}))
		g.MustAdd(node("right", []string{"a"}, []string{"r"}))
		g.MustAdd(node("join", []string{"l", "r"}, []string{"out"}))
		return g
	}

	first, err := build().Plan()
	require.NoError(t, err)
	second, err := build().Plan()
	require.NoError(t, err)

	var firstIDs, secondIDs []string
	for _, n := range first.Nodes() {
		firstIDs = append(firstIDs, n.ID)
	}
	for _, n := range second.Nodes() {
		secondIDs = append(secondIDs, n.ID)
	}
	assert.Equal(t, firstIDs, secondIDs)
	assert.Equal(t, []string{"left", "right", "join"}, firstIDs)
}

func TestPlan_CycleDetection(t *testing.T) {
	g := New()
	g.MustAdd(node("a", []string{"y"}, []string{"x"}))
	g.MustAdd(node("b", []string{"x"}, []string{"y"}))

	_, err := g.Plan()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle detected")
}

func TestPlan_SelfReference(t *testing.T) {
	g := New()
	g.MustAdd(node("a", []string{"x"}, []string{"x", "y"}))

	_, err := g.Plan()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "consumes its own return")
}

func TestPlan_Signature(t *testing.T) {
	g := New()
	g.MustAdd(node("add", []string{"a", "b"}, []string{"c"}))
	g.MustAdd(node("multiply", []string{"c", "d"}, []string{"e"}))

	plan, err := g.Plan()
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "d"}, plan.Inputs())
	assert.Equal(t, []string{"e"}, plan.Outputs())

	assert.True(t, plan.Produces("c"), "intermediate value")
	assert.True(t, plan.Produces("a"), "external input")
	assert.False(t, plan.Produces("nope"))
}

func TestPlan_UsageCounts(t *testing.T) {
	g := New()
	g.MustAdd(node("add", []string{"a", "b"}, []string{"c"}))
	g.MustAdd(node("multiply", []string{"c", "d"}, []string{"e"}))
	g.MustAdd(node("shift", []string{"c"}, []string{"f"}))

	plan, err := g.Plan()
	require.NoError(t, err)

	counts := plan.UsageCounts([]string{"e", "f", "c"})
	assert.Equal(t, map[string]int{
		"a": 1,
		"b": 1,
		"c": 3, // two consumers plus requested
		"d": 1,
		"e": 1,
		"f": 1,
	}, counts)

	// UsageCounts must hand out independent maps.
	counts["c"] = 0
	again := plan.UsageCounts([]string{"e", "f", "c"})
	assert.Equal(t, 3, again["c"])
}

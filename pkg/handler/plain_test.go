package handler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"braid/pkg/domain"
)

func addNode() domain.Node {
	return domain.Node{
		ID: "add",
		Func: func(ctx context.Context, args map[string]any) (any, error) {
			return args["a"].(float64) + args["b"].(float64), nil
		},
		Params:  []string{"a", "b"},
		Returns: []string{"c"},
	}
}

func multiplyNode() domain.Node {
	return domain.Node{
		ID: "multiply",
		Func: func(ctx context.Context, args map[string]any) (any, error) {
			return args["c"].(float64) * args["d"].(float64), nil
		},
		Params:  []string{"c", "d"},
		Returns: []string{"e"},
	}
}

func splitNode() domain.Node {
	return domain.Node{
		ID: "split",
		Func: func(ctx context.Context, args map[string]any) (any, error) {
			v := args["v"].(float64)
			return []any{v - 1, v + 1}, nil
		},
		Params:  []string{"v"},
		Returns: []string{"low", "high"},
	}
}

func TestPlain_RunAndFinish(t *testing.T) {
	ctx := context.Background()
	exec, err := NewPlain().Begin(ctx, map[string]any{"a": 2.0, "b": 3.0, "d": 10.0})
	require.NoError(t, err)

	require.NoError(t, exec.RunNode(ctx, addNode()))
	require.NoError(t, exec.RunNode(ctx, multiplyNode()))

	result, err := exec.Finish(ctx, []string{"e"})
	require.NoError(t, err)
	assert.Equal(t, 50.0, result)
}

func TestPlain_RetainsEverything(t *testing.T) {
	ctx := context.Background()
	exec, err := NewPlain().Begin(ctx, map[string]any{"a": 2.0, "b": 3.0, "d": 10.0})
	require.NoError(t, err)

	require.NoError(t, exec.RunNode(ctx, addNode()))
	require.NoError(t, exec.RunNode(ctx, multiplyNode()))

	// The intermediate and the inputs are all still readable.
	result, err := exec.Finish(ctx, []string{"a", "c", "e"})
	require.NoError(t, err)
	assert.Equal(t, []any{2.0, 5.0, 50.0}, result)
}

func TestPlain_MultiReturnShaping(t *testing.T) {
	ctx := context.Background()
	exec, err := NewPlain().Begin(ctx, map[string]any{"v": 10.0})
	require.NoError(t, err)

	require.NoError(t, exec.RunNode(ctx, splitNode()))

	result, err := exec.Finish(ctx, []string{"high", "low"})
	require.NoError(t, err)
	assert.Equal(t, []any{11.0, 9.0}, result)
}

func TestPlain_MultiReturnMismatch(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		result  any
		wantErr string
	}{
		{"not a sequence", 5.0, "want a sequence"},
		{"wrong arity", []any{1.0}, "produced 1 values"},
		{"nil result", nil, "want a sequence"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec, err := NewPlain().Begin(ctx, nil)
			require.NoError(t, err)

			n := domain.Node{
				ID:      "bad",
				Func:    func(context.Context, map[string]any) (any, error) { return tt.result, nil },
				Returns: []string{"x", "y"},
			}
			err = exec.RunNode(ctx, n)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPlain_TypedSequenceReturn(t *testing.T) {
	ctx := context.Background()
	exec, err := NewPlain().Begin(ctx, nil)
	require.NoError(t, err)

	n := domain.Node{
		ID:      "pair",
		Func:    func(context.Context, map[string]any) (any, error) { return []float64{1.5, 2.5}, nil },
		Returns: []string{"x", "y"},
	}
	require.NoError(t, exec.RunNode(ctx, n))

	result, err := exec.Finish(ctx, []string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, []any{1.5, 2.5}, result)
}

func TestPlain_MissingParameter(t *testing.T) {
	ctx := context.Background()
	exec, err := NewPlain().Begin(ctx, map[string]any{"a": 2.0})
	require.NoError(t, err)

	err = exec.RunNode(ctx, addNode())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingValue)
}

func TestPlain_MissingValueAtFinish(t *testing.T) {
	ctx := context.Background()
	exec, err := NewPlain().Begin(ctx, map[string]any{"a": 2.0})
	require.NoError(t, err)

	_, err = exec.Finish(ctx, []string{"never-produced"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingValue)
}

func TestPlain_FailWrapsCause(t *testing.T) {
	ctx := context.Background()
	exec, err := NewPlain().Begin(ctx, nil)
	require.NoError(t, err)

	cause := fmt.Errorf("boom")
	wrapped := exec.Fail(ctx, addNode(), cause)

	var nodeErr *domain.NodeError
	require.True(t, errors.As(wrapped, &nodeErr))
	assert.Equal(t, "add", nodeErr.NodeID)
	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, wrapped.Error(), "add")
	assert.Contains(t, wrapped.Error(), "boom")
}

package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register("double", func(ctx context.Context, args []any) (any, error) {
		return args[0].(float64) * 2, nil
	})

	op, ok := r.Get("double")
	require.True(t, ok)
	got, err := op(context.Background(), []any{21.0})
	require.NoError(t, err)
	assert.Equal(t, 42.0, got)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegisterOverwrites(t *testing.T) {
	r := NewRegistry()
	r.Register("op", func(context.Context, []any) (any, error) { return "first", nil })
	r.Register("op", func(context.Context, []any) (any, error) { return "second", nil })

	op, ok := r.Get("op")
	require.True(t, ok)
	got, err := op(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestBindOrdersArgsByParams(t *testing.T) {
	r := NewRegistry()
	r.Register("sub", func(ctx context.Context, args []any) (any, error) {
		return args[0].(float64) - args[1].(float64), nil
	})

	// Parameter order, not map order, decides positions.
	fn, err := r.Bind("sub", []string{"hi", "lo"})
	require.NoError(t, err)
	got, err := fn(context.Background(), map[string]any{"lo": 3.0, "hi": 10.0})
	require.NoError(t, err)
	assert.Equal(t, 7.0, got)
}

func TestBindUnknownOperation(t *testing.T) {
	r := NewRegistry()
	_, err := r.Bind("nope", nil)
	assert.ErrorContains(t, err, "operation not found")
}

func TestDefaultOperations(t *testing.T) {
	r := Default()
	ctx := context.Background()

	cases := []struct {
		op   string
		args []any
		want any
	}{
		{"add", []any{2.0, 3.0}, 5.0},
		{"sub", []any{10.0, 4.0}, 6.0},
		{"mul", []any{6.0, 7.0}, 42.0},
		{"div", []any{9.0, 3.0}, 3.0},
		{"pow", []any{2.0, 10.0}, 1024.0},
		{"sum", []any{[]any{1.0, 2.0, 3.5}}, 6.5},
		{"concat", []any{"a", 1, "b"}, "a1b"},
	}
	for _, tc := range cases {
		t.Run(tc.op, func(t *testing.T) {
			op, ok := r.Get(tc.op)
			require.True(t, ok)
			got, err := op(ctx, tc.args)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDivisionByZero(t *testing.T) {
	r := Default()
	op, ok := r.Get("div")
	require.True(t, ok)
	_, err := op(context.Background(), []any{1.0, 0.0})
	assert.ErrorContains(t, err, "division by zero")
}

func TestNumericCoercion(t *testing.T) {
	r := Default()
	op, ok := r.Get("add")
	require.True(t, ok)

	// Decoded inputs arrive as whatever width the codec chose.
	got, err := op(context.Background(), []any{int64(2), int8(3)})
	require.NoError(t, err)
	assert.Equal(t, 5.0, got)

	_, err = op(context.Background(), []any{"two", 3.0})
	assert.ErrorContains(t, err, "expected a number")
}

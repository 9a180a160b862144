// Package tests provides a reusable contract suite for ports.GroupStore
// implementations. Every adapter must pass it so the durable strategy
// behaves identically regardless of backend.
package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"braid/pkg/ports"
)

// RunGroupStoreContract verifies an adapter against the GroupStore
// contract: group lifecycle, keyed round trips, annotations, and
// append-mode persistence across handles.
func RunGroupStoreContract(t *testing.T, store ports.GroupStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		handle, err := store.Open(ctx)
		require.NoError(t, err)
		defer handle.Close()

		group, err := handle.CreateGroup(ctx, "contract_roundtrip_1")
		require.NoError(t, err)

		values := map[string]any{
			"scalar_float":  3.5,
			"scalar_string": "spectrum",
			"scalar_bool":   true,
			"sequence":      []any{1.0, 2.0, 3.0},
			"structured":    map[string]any{"freq": 42.0, "label": "peak"},
		}
		for name, value := range values {
			require.NoError(t, group.Write(ctx, name, value))
		}
		for name, want := range values {
			got, err := group.Read(ctx, name)
			require.NoError(t, err, "read %s", name)
			assert.EqualValues(t, want, got, "round trip of %s", name)
		}
	})

	t.Run("IntegerNormalization", func(t *testing.T) {
		handle, err := store.Open(ctx)
		require.NoError(t, err)
		defer handle.Close()

		group, err := handle.CreateGroup(ctx, "contract_ints_1")
		require.NoError(t, err)
		require.NoError(t, group.Write(ctx, "count", 12))

		got, err := group.Read(ctx, "count")
		require.NoError(t, err)
		assert.EqualValues(t, 12, got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		handle, err := store.Open(ctx)
		require.NoError(t, err)
		defer handle.Close()

		group, err := handle.CreateGroup(ctx, "contract_overwrite_1")
		require.NoError(t, err)
		require.NoError(t, group.Write(ctx, "v", "old"))
		require.NoError(t, group.Write(ctx, "v", "new"))

		got, err := group.Read(ctx, "v")
		require.NoError(t, err)
		assert.Equal(t, "new", got)
	})

	t.Run("MissingKey", func(t *testing.T) {
		handle, err := store.Open(ctx)
		require.NoError(t, err)
		defer handle.Close()

		group, err := handle.CreateGroup(ctx, "contract_missing_1")
		require.NoError(t, err)

		_, err = group.Read(ctx, "never-written")
		assert.ErrorIs(t, err, ports.ErrKeyNotFound)
	})

	t.Run("Attributes", func(t *testing.T) {
		handle, err := store.Open(ctx)
		require.NoError(t, err)
		defer handle.Close()

		group, err := handle.CreateGroup(ctx, "contract_attrs_1")
		require.NoError(t, err)

		_, err = group.Attr(ctx, "note")
		assert.ErrorIs(t, err, ports.ErrKeyNotFound)

		require.NoError(t, group.SetAttr(ctx, "note", "RuntimeError occurred for node x"))
		got, err := group.Attr(ctx, "note")
		require.NoError(t, err)
		assert.Equal(t, "RuntimeError occurred for node x", got)
	})

	t.Run("DuplicateGroup", func(t *testing.T) {
		handle, err := store.Open(ctx)
		require.NoError(t, err)
		defer handle.Close()

		_, err = handle.CreateGroup(ctx, "contract_dup_1")
		require.NoError(t, err)
		_, err = handle.CreateGroup(ctx, "contract_dup_1")
		assert.ErrorIs(t, err, ports.ErrGroupExists)
	})

	t.Run("AppendModePersistence", func(t *testing.T) {
		handle, err := store.Open(ctx)
		require.NoError(t, err)
		group, err := handle.CreateGroup(ctx, "contract_append_1")
		require.NoError(t, err)
		require.NoError(t, group.Write(ctx, "kept", "across handles"))
		require.NoError(t, handle.Close())

		// A later handle must see the earlier group untouched and
		// still accept new ones.
		handle2, err := store.Open(ctx)
		require.NoError(t, err)
		defer handle2.Close()

		old, err := handle2.OpenGroup(ctx, "contract_append_1")
		require.NoError(t, err)
		got, err := old.Read(ctx, "kept")
		require.NoError(t, err)
		assert.Equal(t, "across handles", got)

		_, err = handle2.CreateGroup(ctx, "contract_append_2")
		require.NoError(t, err)

		_, err = handle2.OpenGroup(ctx, "contract_never_created")
		assert.ErrorIs(t, err, ports.ErrKeyNotFound)
	})

	t.Run("DoubleClose", func(t *testing.T) {
		handle, err := store.Open(ctx)
		require.NoError(t, err)
		require.NoError(t, handle.Close())
		assert.NoError(t, handle.Close())
	})
}

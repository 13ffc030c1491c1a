package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunPityStoreContract runs a suite of tests to verify that a PityStore implementation
// adheres to the defined interface contract.
func RunPityStoreContract(t *testing.T, store PityStore) {
	ctx := context.Background()
	key := PityKey("contract", "user-"+time.Now().Format("20060102150405"))

	t.Run("Set and Get", func(t *testing.T) {
		err := store.Set(ctx, key, 37)
		require.NoError(t, err, "Set should not return error")

		n, err := store.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, 37, n)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, 1))
		require.NoError(t, store.Set(ctx, key, 2))

		n, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("Get Missing", func(t *testing.T) {
		n, err := store.Get(ctx, "missing-"+key)
		require.NoError(t, err, "missing counters read as zero")
		assert.Zero(t, n)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, 12))

		err := store.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		n, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Zero(t, n, "Get after Delete should read zero")
	})

	t.Run("List", func(t *testing.T) {
		k1 := key + "-1"
		k2 := key + "-2"
		require.NoError(t, store.Set(ctx, k1, 1))
		require.NoError(t, store.Set(ctx, k2, 2))

		defer func() {
			_ = store.Delete(ctx, k1)
			_ = store.Delete(ctx, k2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})
}

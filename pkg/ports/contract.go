package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/formflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunBlobStoreContract runs a suite of tests to verify that a BlobStore implementation
// adheres to the defined interface contract.
func RunBlobStoreContract(t *testing.T, store BlobStore) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Set and Get", func(t *testing.T) {
		value := []byte(`{"variables":{"foo":"bar"},"form":{},"initialized":true}`)

		require.NoError(t, store.Set(ctx, key, value), "Set should not return error")

		loaded, err := store.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, value, loaded)
	})

	t.Run("Set replaces", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, []byte("first")))
		require.NoError(t, store.Set(ctx, key, []byte("second")))

		loaded, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), loaded)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Returned value is not shared", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, []byte("abc")))

		loaded, err := store.Get(ctx, key)
		require.NoError(t, err)
		loaded[0] = 'z'

		again, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), again)
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, []byte("value")))

		require.NoError(t, store.Remove(ctx, key), "Remove should not return error")

		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrNotFound, "Get after Remove should return ErrNotFound")
	})

	t.Run("Remove Non-Existent", func(t *testing.T) {
		assert.NoError(t, store.Remove(ctx, "never-written-"+key))
	})

	t.Run("Keys are independent", func(t *testing.T) {
		a, b := key+"-a", key+"-b"
		defer func() {
			_ = store.Remove(ctx, a)
			_ = store.Remove(ctx, b)
		}()

		require.NoError(t, store.Set(ctx, a, []byte("A")))
		require.NoError(t, store.Set(ctx, b, []byte("B")))
		require.NoError(t, store.Remove(ctx, a))

		loaded, err := store.Get(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, []byte("B"), loaded)
	})
}

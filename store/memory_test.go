package store

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testAdapterContract exercises the behavior every Adapter must share.
func testAdapterContract(t *testing.T, adapter Adapter) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		raw, ok, err := adapter.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, raw)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, adapter.Set(ctx, "t1", json.RawMessage(`{"v":1}`)))

		raw, ok, err := adapter.Get(ctx, "t1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.JSONEq(t, `{"v":1}`, string(raw))

		require.NoError(t, adapter.Set(ctx, "t1", json.RawMessage(`{"v":2}`)))
		raw, _, err = adapter.Get(ctx, "t1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":2}`, string(raw))
	})

	t.Run("keys", func(t *testing.T) {
		require.NoError(t, adapter.Set(ctx, "t2", json.RawMessage(`{}`)))

		keys, err := adapter.Keys(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"t1", "t2"}, keys)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, adapter.Delete(ctx, "t1"))
		require.NoError(t, adapter.Delete(ctx, "t1"), "deleting a missing key is not an error")

		_, ok, err := adapter.Get(ctx, "t1")
		require.NoError(t, err)
		assert.False(t, ok)

		keys, err := adapter.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"t2"}, keys)
	})
}

func TestMemoryAdapter(t *testing.T) {
	testAdapterContract(t, NewMemoryAdapter())
}

func TestMemoryAdapter_CopiesValues(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()

	value := json.RawMessage(`{"v":1}`)
	require.NoError(t, adapter.Set(ctx, "t1", value))
	value[5] = '9'

	raw, _, err := adapter.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(raw))
}

func TestMemoryAdapter_Concurrent(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = adapter.Set(ctx, "t1", json.RawMessage(`{}`))
		}()
		go func() {
			defer wg.Done()
			_, _, _ = adapter.Get(ctx, "t1")
		}()
	}
	wg.Wait()

	keys, err := adapter.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, keys)
}

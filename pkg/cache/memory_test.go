package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", payload{Name: "btc_dominance", Value: 56.0}, time.Minute))

	var got payload
	require.NoError(t, mc.Get(ctx, "k", &got))
	assert.Equal(t, "btc_dominance", got.Name)
	assert.Equal(t, 56.0, got.Value)
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var got payload
	err := mc.Get(context.Background(), "absent", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", payload{}, time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	var got payload
	assert.ErrorIs(t, mc.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", payload{Value: 1}, time.Minute))
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Set(ctx, "b", payload{Value: 2}, time.Minute))
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Set(ctx, "c", payload{Value: 3}, time.Minute))

	var got payload
	assert.ErrorIs(t, mc.Get(ctx, "a", &got), ErrCacheMiss)
	assert.NoError(t, mc.Get(ctx, "c", &got))
}

func TestLayeredCacheMemoryOnly(t *testing.T) {
	lc := NewLayeredCache(nil)
	defer lc.Close()
	ctx := context.Background()

	require.NoError(t, lc.Set(ctx, "snap", payload{Name: "eth_btc", Value: 0.06}, time.Minute))

	var got payload
	require.NoError(t, lc.Get(ctx, "snap", &got))
	assert.Equal(t, 0.06, got.Value)

	ok, err := lc.Exists(ctx, "snap")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, lc.Delete(ctx, "snap"))
	assert.ErrorIs(t, lc.Get(ctx, "snap", &got), ErrCacheMiss)
}

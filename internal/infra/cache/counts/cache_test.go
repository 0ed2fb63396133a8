package counts

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewCache(rdb, time.Minute), mr
}

func TestCache_MissThenHit(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	_, version, ok, err := cache.Get(ctx, "2026-10-19", "2026-10-23")
	require.NoError(t, err)
	assert.False(t, ok)

	want := map[string]int{"2026-10-19": 3}
	require.NoError(t, cache.Set(ctx, "2026-10-19", "2026-10-23", version, want))

	got, _, ok, err := cache.Get(ctx, "2026-10-19", "2026-10-23")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	_, _, ok, err = cache.Get(ctx, "2026-10-19", "2026-10-20")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_InvalidateDropsEntries(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "2026-10-19", "2026-10-23", 0, map[string]int{"2026-10-19": 1}))
	require.NoError(t, cache.Invalidate(ctx))

	_, version, ok, err := cache.Get(ctx, "2026-10-19", "2026-10-23")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(1), version)
}

// Счетчики, прочитанные до сброса, не должны попасть под новую версию
func TestCache_InvalidateBetweenGetAndSet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	_, staleVersion, ok, err := cache.Get(ctx, "2026-10-19", "2026-10-23")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, cache.Invalidate(ctx))
	require.NoError(t, cache.Set(ctx, "2026-10-19", "2026-10-23", staleVersion, map[string]int{"2026-10-19": 1}))

	_, version, ok, err := cache.Get(ctx, "2026-10-19", "2026-10-23")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, version, staleVersion)
}

func TestCache_EntriesExpire(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "2026-10-19", "2026-10-19", 0, map[string]int{}))
	mr.FastForward(2 * time.Minute)

	_, _, ok, err := cache.Get(ctx, "2026-10-19", "2026-10-19")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_RedisDown(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Close()

	_, _, ok, err := cache.Get(context.Background(), "2026-10-19", "2026-10-19")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, cache.Invalidate(context.Background()))
}

package redis

import (
	"context"
	"testing"
	"time"

	"marketplace-wallet/internal/core/ports"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingCountsCache_SetAndGet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewPendingCountsCache(client)
	ctx := context.Background()

	// Get before set => nil
	counts, err := cache.Get(ctx)
	assert.NoError(t, err)
	assert.Nil(t, counts)

	err = cache.Set(ctx, ports.PendingCounts{PendingRequests: 7, PendingCompletions: 2}, time.Minute)
	require.NoError(t, err)

	counts, err = cache.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, counts)
	assert.Equal(t, int64(7), counts.PendingRequests)
	assert.Equal(t, int64(2), counts.PendingCompletions)
}

func TestPendingCountsCache_TTLExpiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewPendingCountsCache(client)
	ctx := context.Background()

	err := cache.Set(ctx, ports.PendingCounts{PendingRequests: 1}, time.Second)
	require.NoError(t, err)

	// Fast-forward time in miniredis
	s.FastForward(2 * time.Second)

	counts, err := cache.Get(ctx)
	assert.NoError(t, err)
	assert.Nil(t, counts, "expired key should return nil")
}

func TestPendingCountsCache_Invalidate(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewPendingCountsCache(client)
	ctx := context.Background()

	err := cache.Set(ctx, ports.PendingCounts{PendingRequests: 4, PendingCompletions: 1}, time.Minute)
	require.NoError(t, err)

	require.NoError(t, cache.Invalidate(ctx))

	counts, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, counts)
}

func TestPendingCountsCache_InvalidateMissingKey(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewPendingCountsCache(client)

	assert.NoError(t, cache.Invalidate(context.Background()))
}

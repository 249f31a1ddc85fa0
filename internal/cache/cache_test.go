package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Regions []string `json:"regions"`
}

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, ttl), mr
}

func TestGetMissOnEmptyStore(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)

	var dest snapshot
	assert.Equal(t, Miss, c.Get(context.Background(), &dest))
}

func TestSetThenGetRoundTrip(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	c.Set(ctx, snapshot{Regions: []string{"North", "South"}})

	var dest snapshot
	require.Equal(t, Hit, c.Get(ctx, &dest))
	assert.Equal(t, []string{"North", "South"}, dest.Regions)
}

func TestGetMissAfterTTL(t *testing.T) {
	c, mr := newTestCache(t, time.Hour)
	ctx := context.Background()

	c.Set(ctx, snapshot{Regions: []string{"North"}})
	mr.FastForward(time.Hour + time.Second)

	var dest snapshot
	assert.Equal(t, Miss, c.Get(ctx, &dest))
}

func TestGetUnavailableWhenStoreDown(t *testing.T) {
	c, mr := newTestCache(t, time.Hour)
	ctx := context.Background()

	c.Set(ctx, snapshot{Regions: []string{"North"}})
	mr.Close()

	var dest snapshot
	assert.Equal(t, Unavailable, c.Get(ctx, &dest))
}

func TestGetUnavailableOnCorruptPayload(t *testing.T) {
	c, mr := newTestCache(t, time.Hour)
	require.NoError(t, mr.Set(filterOptionsKey, "not json"))

	var dest snapshot
	assert.Equal(t, Unavailable, c.Get(context.Background(), &dest))
}

func TestInvalidateDropsKey(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	c.Set(ctx, snapshot{Regions: []string{"North"}})
	c.Invalidate(ctx)

	var dest snapshot
	assert.Equal(t, Miss, c.Get(ctx, &dest))
}

func TestNilCacheAlwaysUnavailable(t *testing.T) {
	ctx := context.Background()

	var c *Cache
	var dest snapshot
	assert.Equal(t, Unavailable, c.Get(ctx, &dest))
	assert.NotPanics(t, func() { c.Set(ctx, snapshot{}) })
	assert.NotPanics(t, func() { c.Invalidate(ctx) })

	nilClient := New(nil, time.Hour)
	assert.Equal(t, Unavailable, nilClient.Get(ctx, &dest))
}

func TestNewDefaultsTTL(t *testing.T) {
	c := New(nil, 0)
	assert.Equal(t, DefaultTTL, c.ttl)
}

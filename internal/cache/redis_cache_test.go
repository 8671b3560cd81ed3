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

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisCache(rdb), mr
}

type payload struct {
	CallID string  `json:"call_id"`
	Score  float64 `json:"score"`
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	hit, err := c.GetJSON(ctx, "calls:recent", &payload{})
	require.NoError(t, err)
	assert.False(t, hit)

	in := payload{CallID: "LIVE-AB12CD34", Score: 0.83}
	require.NoError(t, c.SetJSON(ctx, "calls:recent", in, time.Minute))

	var out payload
	hit, err = c.GetJSON(ctx, "calls:recent", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, in, out)
}

func TestRedisCacheDel(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", payload{CallID: "x"}, time.Minute))
	require.NoError(t, c.Del(ctx, "k"))

	hit, err := c.GetJSON(ctx, "k", &payload{})
	require.NoError(t, err)
	assert.False(t, hit)

	// deleting nothing is a no-op
	require.NoError(t, c.Del(ctx))
}

func TestRedisCacheCorruptValueIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	mr.Set("k", "{not json")

	hit, err := c.GetJSON(ctx, "k", &payload{})
	require.NoError(t, err)
	assert.False(t, hit)

	// corrupt entry is evicted on read
	assert.False(t, mr.Exists("k"))
}

func TestRedisCacheTTLExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", payload{CallID: "x"}, time.Second))
	mr.FastForward(2 * time.Second)

	hit, err := c.GetJSON(ctx, "k", &payload{})
	require.NoError(t, err)
	assert.False(t, hit)
}

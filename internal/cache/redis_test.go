package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCache(mr.Addr(), "", 0, ttl)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisCache_GetMissing(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	val, found, err := c.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, val)
}

func TestRedisCache_SetGet(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "Hi there"))

	val, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Hi there", val)
	assert.True(t, mr.Exists(keyPrefix+"k"))
}

func TestRedisCache_Expires(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v"))
	mr.FastForward(2 * time.Minute)

	_, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_ServerDown(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	mr.Close()

	_, found, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, found)
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key([]byte("a"), []byte("b")), Key([]byte("a"), []byte("b")))
	assert.NotEqual(t, Key([]byte("ab"), []byte("c")), Key([]byte("a"), []byte("bc")))
	assert.Len(t, Key([]byte("x")), 64)
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: time.Minute, CleanupInterval: time.Minute})
	defer c.Close()

	c.Set(ctx, "a", 1)
	v, ok := c.Get(ctx, "a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	_, ok = c.Get(ctx, "missing")
	require.False(t, ok)
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: time.Minute, CleanupInterval: time.Minute})
	defer c.Close()

	c.SetWithTTL(ctx, "a", "x", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	_, ok := c.Get(ctx, "a")
	require.False(t, ok)
}

func TestCache_MaxItemsEvictsLRU(t *testing.T) {
	ctx := context.Background()
	evicted := []string{}
	c := New(Config{
		DefaultTTL:      time.Minute,
		CleanupInterval: time.Minute,
		MaxItems:        2,
		OnEviction:      func(key string, _ any) { evicted = append(evicted, key) },
	})
	defer c.Close()

	c.Set(ctx, "a", 1)
	c.Set(ctx, "b", 2)
	// Touch "a" so "b" becomes the eviction candidate.
	_, _ = c.Get(ctx, "a")
	c.Set(ctx, "c", 3)

	require.Equal(t, []string{"b"}, evicted)
	_, ok := c.Get(ctx, "a")
	require.True(t, ok)
	_, ok = c.Get(ctx, "c")
	require.True(t, ok)
}

func TestCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := New(Config{})
	defer c.Close()

	c.Set(ctx, "a", 1)
	c.Delete(ctx, "a")
	_, ok := c.Get(ctx, "a")
	require.False(t, ok)
	require.Zero(t, c.Len())
}

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute, CleanupInterval: time.Minute})
	defer c.Close()

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	_, ok = c.Get("missing")
	require.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := New(Config{DefaultTTL: 10 * time.Millisecond, CleanupInterval: time.Minute})
	defer c.Close()

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)
	_, ok := c.Get("a")
	require.False(t, ok)
}

func TestMaxItemsEviction(t *testing.T) {
	evicted := map[string]any{}
	c := New(Config{
		DefaultTTL:      time.Minute,
		CleanupInterval: time.Minute,
		MaxItems:        2,
		OnEviction:      func(key string, value any) { evicted[key] = value },
	})
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	require.Len(t, evicted, 1)
	_, ok := c.Get("c")
	require.True(t, ok)
}

func TestDelete(t *testing.T) {
	c := New(Config{})
	defer c.Close()

	c.Set("a", 1)
	c.Delete("a")
	_, ok := c.Get("a")
	require.False(t, ok)
}

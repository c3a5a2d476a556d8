package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClientSetGetDelete(t *testing.T) {
	c := NewMemoryClient(0)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	val, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", val)

	require.NoError(t, c.Delete(ctx, "k"))
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryClientTTLExpiry(t *testing.T) {
	c := NewMemoryClient(0)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryClientZeroTTLNeverExpires(t *testing.T) {
	c := NewMemoryClient(0)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok)
}

func TestMemoryClientEvictsWhenFull(t *testing.T) {
	c := NewMemoryClient(2)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", "1", 0))
	require.NoError(t, c.Set(ctx, "b", "2", 0))
	require.NoError(t, c.Set(ctx, "c", "3", 0))

	count := 0
	for _, k := range []string{"a", "b", "c"} {
		if _, ok, _ := c.Get(ctx, k); ok {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestSearchKeyIsStable(t *testing.T) {
	a := SearchKey("  Quels TARIFS ?  ", 3)
	b := SearchKey("quels tarifs ?", 3)
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, SearchKey("quels tarifs ?", 5))
	assert.NotEqual(t, a, SearchKey("autre question", 3))
}

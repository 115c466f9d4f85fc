package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCache_ExactHit(t *testing.T) {
	c, err := New(8)
	require.NoError(t, err)

	c.Set("key-a", "value-a", nil, 0)
	entry, ok := c.Get("key-a", nil)
	require.True(t, ok)
	require.Equal(t, "value-a", entry.Value)
	require.Equal(t, int64(1), entry.Hits)
}

func TestCache_SimilarityHitPromotesToL1(t *testing.T) {
	c, err := New(8)
	require.NoError(t, err)

	stored := []float32{1, 0, 0}
	c.Set("key-a", "value-a", stored, 0)

	near := []float32{0.99, 0.01, 0}
	entry, ok := c.Get("key-b", near)
	require.True(t, ok)
	require.Equal(t, "value-a", entry.Value)

	entry2, ok := c.Get("key-a", nil)
	require.True(t, ok)
	require.Equal(t, int64(2), entry2.Hits)
}

func TestCache_BelowThresholdMisses(t *testing.T) {
	c, err := New(8)
	require.NoError(t, err)

	c.Set("key-a", "value-a", []float32{1, 0, 0}, 0)
	_, ok := c.Get("key-b", []float32{0, 1, 0})
	require.False(t, ok)
}

func TestCache_TTLExpiry(t *testing.T) {
	c, err := New(8)
	require.NoError(t, err)

	c.Set("key-a", "value-a", nil, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("key-a", nil)
	require.False(t, ok)
	require.Equal(t, 0, c.Len())
}

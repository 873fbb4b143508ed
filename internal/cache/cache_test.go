package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestCache_SetThenGet(t *testing.T) {
	c := New[string, int](4, time.Minute)
	c.Set("a", 1)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCache_SetOverwrites(t *testing.T) {
	c := New[string, int](4, time.Minute)
	c.Set("a", 1)
	c.Set("a", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())
}

func TestCache_ExpiredGetMissesAndRemoves(t *testing.T) {
	clock := newFakeClock()
	c := New[string, int](4, time.Minute, WithClock(clock.Now))
	c.Set("a", 1)

	clock.Advance(time.Minute)
	_, ok := c.Get("a")
	assert.True(t, ok, "entry exactly at ttl is still fresh")

	clock.Advance(time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry should be evicted on get")
}

func TestCache_OverwriteRefreshesInsertionTime(t *testing.T) {
	clock := newFakeClock()
	c := New[string, int](4, time.Minute, WithClock(clock.Now))
	c.Set("a", 1)
	clock.Advance(50 * time.Second)
	c.Set("a", 2)
	clock.Advance(50 * time.Second)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](3, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// touch a so b becomes the least recently used
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("d", 4)

	_, ok = c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	for _, k := range []string{"a", "c", "d"} {
		_, ok := c.Get(k)
		assert.True(t, ok, "expected %s to survive", k)
	}
	assert.Equal(t, 3, c.Len())
}

func TestCache_SetRefreshesRecency(t *testing.T) {
	c := New[string, int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, v)
}

func TestCache_CleanupExpired(t *testing.T) {
	clock := newFakeClock()
	c := New[string, int](10, time.Minute, WithClock(clock.Now))
	c.Set("old1", 1)
	c.Set("old2", 2)
	clock.Advance(45 * time.Second)
	c.Set("fresh", 3)
	clock.Advance(30 * time.Second)

	assert.Equal(t, 2, c.CleanupExpired())
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("fresh")
	assert.True(t, ok)
	assert.Equal(t, 0, c.CleanupExpired())
}

func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	clock := newFakeClock()
	c := New[string, int](2, 0, WithClock(clock.Now))
	c.Set("a", 1)
	clock.Advance(24 * time.Hour)

	_, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 0, c.CleanupExpired())
}

func TestCache_Clear(t *testing.T) {
	c := New[string, int](2, time.Minute)
	c.Set("a", 1)
	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCache_CapacityFloor(t *testing.T) {
	c := New[string, int](0, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	assert.Equal(t, 1, c.Len())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := New[string, int](64, time.Minute)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("k%d", (w*31+i)%128)
				c.Set(key, i)
				c.Get(key)
				if i%100 == 0 {
					c.CleanupExpired()
				}
			}
		}(w)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 64)
}

// Package cache provides the bounded TTL + LRU cache used to memoize routing
// decisions.
//
// Example usage:
//
//	c := cache.New[string, router.RouteDecision](1024, 10*time.Minute)
//	c.Set("what is ospf|", decision)
//	if d, ok := c.Get("what is ospf|"); ok {
//	    // use d
//	}
//
// Expiry is lazy: Get drops an expired entry when it is read. Owners that
// write often call CleanupExpired periodically to reclaim entries that are
// never read again; the router sweeps every 64 writes.
//
// All operations except CleanupExpired are O(1) and serialized behind one
// mutex.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Cache is a fixed-capacity map whose entries expire after a TTL and are
// evicted least-recently-used first when capacity is exceeded.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time
	order    *list.List // front = most recently used
	entries  map[K]*list.Element
}

type entry[K comparable, V any] struct {
	key        K
	value      V
	insertedAt time.Time
}

// Option configures a Cache
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New creates a cache. A capacity below 1 is raised to 1; a non-positive ttl
// disables expiry.
func New[K comparable, V any](capacity int, ttl time.Duration, opts ...Option) *Cache[K, V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[K, V]{
		capacity: capacity,
		ttl:      ttl,
		now:      o.now,
		order:    list.New(),
		entries:  make(map[K]*list.Element),
	}
}

// Get returns the value for key. Expired entries are removed and reported as
// a miss. A hit marks the entry most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.entries[key]
	if !ok {
		return zero, false
	}

	e := el.Value.(*entry[K, V])
	if c.expired(e, c.now()) {
		c.removeElement(el)
		return zero, false
	}

	c.order.MoveToFront(el)
	return e.value, true
}

// Set stores value under key, overwriting any previous value and resetting
// its insertion time. When the cache grows past capacity the least recently
// used entry is evicted.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry[K, V])
		e.value = value
		e.insertedAt = now
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&entry[K, V]{key: key, value: value, insertedAt: now})
	c.entries[key] = el

	for c.order.Len() > c.capacity {
		c.removeElement(c.order.Back())
	}
}

// CleanupExpired removes every expired entry and returns how many were
// removed.
func (c *Cache[K, V]) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl <= 0 {
		return 0
	}

	now := c.now()
	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if c.expired(el.Value.(*entry[K, V]), now) {
			c.removeElement(el)
			removed++
		}
		el = prev
	}
	return removed
}

// Len returns the number of stored entries, expired or not
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear empties the cache
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.entries = make(map[K]*list.Element)
}

func (c *Cache[K, V]) expired(e *entry[K, V], now time.Time) bool {
	return c.ttl > 0 && now.Sub(e.insertedAt) > c.ttl
}

func (c *Cache[K, V]) removeElement(el *list.Element) {
	e := c.order.Remove(el).(*entry[K, V])
	delete(c.entries, e.key)
}

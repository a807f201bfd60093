// Package seen tracks recently processed snapshot ids so resubmitted
// snapshots are acknowledged without recomputation.
package seen

import (
	"context"
	"sync"
)

// Recorder records seen snapshot ids for at-most-once processing.
type Recorder interface {
	// SeenAndRecord atomically checks whether id was seen and records
	// it if not. Returns true when id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets an id so it can be retried, used when a snapshot
	// was recorded but failed to enqueue.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// Cache is a bounded in-memory Recorder. When full it evicts the oldest
// recorded id first.
type Cache struct {
	mu      sync.Mutex
	ids     map[string]struct{}
	ring    []string // insertion order, oldest at ring[head]
	head    int
	maxSize int
}

const defaultMaxSize = 100_000

// Option applies a configuration option to the Cache.
type Option func(*Cache)

// WithMaxSize bounds the number of ids kept in memory. Values below one
// fall back to the default.
func WithMaxSize(size int) Option {
	return func(c *Cache) {
		if size > 0 {
			c.maxSize = size
		}
	}
}

// NewCache creates a bounded seen-cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(c)
	}
	c.ids = make(map[string]struct{}, c.maxSize)
	c.ring = make([]string, 0, c.maxSize)
	return c
}

// SeenAndRecord atomically checks and records id.
func (c *Cache) SeenAndRecord(_ context.Context, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.ids[id]; ok {
		return true
	}
	if len(c.ids) >= c.maxSize {
		c.evictOldest()
	}
	c.ids[id] = struct{}{}
	c.ring = append(c.ring, id)
	return false
}

// Unrecord forgets id, allowing the snapshot to be resubmitted.
func (c *Cache) Unrecord(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ids, id)
	// The ring slot stays behind as a tombstone; eviction skips ids that
	// are no longer in the map.
}

// Size returns the number of ids currently recorded.
func (c *Cache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int64(len(c.ids))
}

// evictOldest drops the oldest live id. Must be called with mu held.
func (c *Cache) evictOldest() {
	for c.head < len(c.ring) {
		id := c.ring[c.head]
		c.head++
		if _, ok := c.ids[id]; ok {
			delete(c.ids, id)
			break
		}
	}
	// Compact once the consumed prefix dominates the ring.
	if c.head > len(c.ring)/2 {
		c.ring = append(c.ring[:0:0], c.ring[c.head:]...)
		c.head = 0
	}
}

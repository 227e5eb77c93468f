// Package cache memoizes predictions for repeated landmark vectors.
package cache

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/okian/gesture/internal/domain/landmark"
)

// DefaultSize bounds the number of cached vectors.
const DefaultSize = 4096

// PredictionCache maps feature vectors to the class index they scored as.
type PredictionCache interface {
	// Get returns the cached class for v.
	Get(v landmark.FeatureVector) (int, bool)
	// Add stores class for v, evicting the least recently used entry if full.
	Add(v landmark.FeatureVector, class int)
	// Len is the current number of entries.
	Len() int
	// Size is the configured capacity; 0 means caching is disabled.
	Size() int
	// Hits and Misses count lookups since creation.
	Hits() int64
	Misses() int64
}

// Option applies a configuration option to the LRU cache.
type Option func(*lruCache)

// WithSize sets the capacity. Zero or negative disables caching.
func WithSize(size int) Option {
	return func(c *lruCache) {
		c.size = size
	}
}

type lruCache struct {
	size   int
	items  *lru.Cache[string, int]
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a prediction cache. With a non-positive size every lookup misses
// and nothing is stored.
func New(opts ...Option) (PredictionCache, error) {
	c := &lruCache{size: DefaultSize}
	for _, opt := range opts {
		opt(c)
	}
	if c.size <= 0 {
		c.size = 0
		return c, nil
	}
	items, err := lru.New[string, int](c.size)
	if err != nil {
		return nil, err
	}
	c.items = items
	return c, nil
}

func (c *lruCache) Get(v landmark.FeatureVector) (int, bool) {
	if c.items == nil {
		c.misses.Add(1)
		return 0, false
	}
	class, ok := c.items.Get(key(v))
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return class, ok
}

func (c *lruCache) Add(v landmark.FeatureVector, class int) {
	if c.items == nil {
		return
	}
	c.items.Add(key(v), class)
}

func (c *lruCache) Len() int {
	if c.items == nil {
		return 0
	}
	return c.items.Len()
}

func (c *lruCache) Size() int     { return c.size }
func (c *lruCache) Hits() int64   { return c.hits.Load() }
func (c *lruCache) Misses() int64 { return c.misses.Load() }

// key packs the exact float bits so only bit-identical vectors collide.
func key(v landmark.FeatureVector) string {
	buf := make([]byte, 8*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(f))
	}
	return string(buf)
}

// Package cache keeps compiled values keyed by string so equal requests share
// one instance. Eviction is up to the Store: Weak drops entries once nothing
// else references them, LRU keeps a fixed number of the most recent ones.
package cache

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"weak"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Store holds cached values. Implementations must be safe for concurrent use.
type Store[V any] interface {
	Get(key string) (*V, bool)
	Add(key string, value *V)
	Len() int
	Purge()
}

// Weak is a Store whose entries live as long as their value is referenced
// outside the cache.
type Weak[V any] struct {
	mu      sync.Mutex
	entries map[string]weak.Pointer[V]
}

// NewWeak creates an empty weak store.
func NewWeak[V any]() *Weak[V] {
	return &Weak[V]{entries: make(map[string]weak.Pointer[V])}
}

func (w *Weak[V]) Get(key string) (*V, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	wp, ok := w.entries[key]
	if !ok {
		return nil, false
	}
	v := wp.Value()
	if v == nil {
		delete(w.entries, key)
		return nil, false
	}
	return v, true
}

func (w *Weak[V]) Add(key string, value *V) {
	wp := weak.Make(value)

	w.mu.Lock()
	w.entries[key] = wp
	w.mu.Unlock()

	runtime.AddCleanup(value, w.reclaim, reclaimed[V]{key: key, ptr: wp})
}

type reclaimed[V any] struct {
	key string
	ptr weak.Pointer[V]
}

// reclaim removes an entry after its value was collected, unless the key
// was re-added with another value meanwhile.
func (w *Weak[V]) reclaim(r reclaimed[V]) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if cur, ok := w.entries[r.key]; ok && cur == r.ptr {
		delete(w.entries, r.key)
	}
}

// Len counts the entries not yet reclaimed, including collected values whose
// cleanup has not run.
func (w *Weak[V]) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

func (w *Weak[V]) Purge() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = make(map[string]weak.Pointer[V])
}

// LRU is a Store bounded to a number of entries.
type LRU[V any] struct {
	cache *lru.Cache[string, *V]
}

// NewLRU creates a store keeping at most size entries. onEvict, if not nil,
// is called with the key of every entry pushed out.
func NewLRU[V any](size int, onEvict func(key string)) (*LRU[V], error) {
	if size <= 0 {
		return nil, fmt.Errorf("lru size must be positive, got %d", size)
	}
	c, err := lru.NewWithEvict(size, func(key string, _ *V) {
		if onEvict != nil {
			onEvict(key)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create lru: %w", err)
	}
	return &LRU[V]{cache: c}, nil
}

func (l *LRU[V]) Get(key string) (*V, bool) { return l.cache.Get(key) }
func (l *LRU[V]) Add(key string, value *V) { l.cache.Add(key, value) }
func (l *LRU[V]) Len() int                 { return l.cache.Len() }
func (l *LRU[V]) Purge()                   { l.cache.Purge() }

// Stats counts lookups since the cache was created.
type Stats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

// Cache builds values on demand and stores them. Concurrent requests for a
// missing key wait for a single build.
type Cache[V any] struct {
	store  Store[V]
	group  singleflight.Group
	logger *zap.Logger
	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates a cache on store. A nil logger disables logging.
func New[V any](store Store[V], logger *zap.Logger) *Cache[V] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache[V]{store: store, logger: logger}
}

// Fetch returns the value stored under key, building and storing it first if
// needed. Build errors are returned to every waiting caller and not stored.
func (c *Cache[V]) Fetch(key string, build func() (*V, error)) (*V, error) {
	if v, ok := c.store.Get(key); ok {
		c.hits.Add(1)
		return v, nil
	}
	c.misses.Add(1)

	v, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.store.Get(key); ok {
			return v, nil
		}
		v, err := build()
		if err != nil {
			return nil, err
		}
		c.store.Add(key, v)
		c.logger.Debug("cached", zap.String("key", key), zap.Int("size", c.store.Len()))
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*V), nil
}

// Purge empties the cache.
func (c *Cache[V]) Purge() {
	c.store.Purge()
	c.logger.Debug("cache purged")
}

func (c *Cache[V]) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Size: c.store.Len()}
}

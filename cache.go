package pathpat

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/gnolang/pathpat/internal/cache"
)

// Cache shares compiled patterns between equal Compile calls.
type Cache = cache.Cache[Pattern]

// CacheStats counts cache lookups.
type CacheStats = cache.Stats

var current atomic.Pointer[Cache]

func init() {
	current.Store(NewWeakCache(nil))
}

// NewWeakCache creates a cache that keeps a pattern for as long as it is
// referenced somewhere else. This is the default.
func NewWeakCache(logger *zap.Logger) *Cache {
	return cache.New[Pattern](cache.NewWeak[Pattern](), logger)
}

// NewLRUCache creates a cache that keeps the size most recently used patterns.
func NewLRUCache(size int, logger *zap.Logger) (*Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	store, err := cache.NewLRU[Pattern](size, func(key string) {
		logger.Debug("evicted", zap.String("key", key))
	})
	if err != nil {
		return nil, err
	}
	return cache.New[Pattern](store, logger), nil
}

// SetCache replaces the process-wide cache used by Compile. A nil cache
// disables caching.
func SetCache(c *Cache) {
	current.Store(c)
}

// DefaultCache returns the process-wide cache used by Compile, or nil if
// caching is disabled.
func DefaultCache() *Cache {
	return current.Load()
}

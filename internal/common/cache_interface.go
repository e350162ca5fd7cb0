package common

import "time"

// CacheInterface defines the contract for cache implementations
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value interface{}, duration time.Duration)

	// Get retrieves a value from cache by key
	// Returns the value and true if found, nil and false otherwise
	Get(key string) (interface{}, bool)

	// Delete removes a value from cache by key
	Delete(key string)

	// GetOrSet returns the cached value for key, or runs loader and caches its result
	GetOrSet(key string, duration time.Duration, loader func() (any, error)) (interface{}, error)

	// Close releases any underlying connections
	Close() error
}

// NewCache picks Redis when a client is given and falls back to the
// in-memory cache otherwise.
func NewCache(redisCache *RedisCacheService, defaultExpiration, cleanupInterval time.Duration) CacheInterface {
	if redisCache != nil {
		return redisCache
	}
	return NewCacheService(defaultExpiration, cleanupInterval)
}

package store

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// MemoryCache process-scoped copy of every value read from or written to a
// CachedKV. Owned by whoever constructs it; share one per process.
type MemoryCache struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{values: map[string]string{}}
}

func (c *MemoryCache) get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

func (c *MemoryCache) put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

func (c *MemoryCache) remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
}

// CachedKV never-failing storage adapter. Reads prefer the durable store and
// fall back to the cache; writes always land in the cache and are then
// attempted on the durable store. Durable failures are logged and recorded,
// never returned.
type CachedKV struct {
	durable KV
	cache   *MemoryCache
	logger  *zap.Logger

	mu      sync.RWMutex
	lastErr error
}

// NewCachedKV durable may be nil (memory-only).
func NewCachedKV(durable KV, cache *MemoryCache, logger *zap.Logger) *CachedKV {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedKV{durable: durable, cache: cache, logger: logger}
}

// Get returns ("", false) when neither the durable store nor the cache has key.
func (s *CachedKV) Get(ctx context.Context, key string) (string, bool) {
	if s.durable != nil {
		v, err := s.durable.Get(ctx, key)
		switch {
		case err == nil:
			s.cache.put(key, v)
			return v, true
		case errors.Is(err, ErrMiss):
		default:
			s.degrade("get", key, err)
		}
	}
	return s.cache.get(key)
}

// Set the value is readable from this process even if the durable write fails.
func (s *CachedKV) Set(ctx context.Context, key, value string) {
	s.cache.put(key, value)
	if s.durable == nil {
		return
	}
	if err := s.durable.Set(ctx, key, value); err != nil {
		s.degrade("set", key, err)
	}
}

func (s *CachedKV) Remove(ctx context.Context, key string) {
	s.cache.remove(key)
	if s.durable == nil {
		return
	}
	if err := s.durable.Delete(ctx, key); err != nil {
		s.degrade("delete", key, err)
	}
}

// Degraded true once any durable operation has failed in this process.
func (s *CachedKV) Degraded() bool {
	return s.LastError() != nil
}

// LastError most recent durable failure, nil if none.
func (s *CachedKV) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *CachedKV) degrade(op, key string, err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	s.logger.Warn("durable store failed, serving from memory",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err),
	)
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	goCache "github.com/patrickmn/go-cache"

	appErrors "github.com/noah-isme/employee-admin/pkg/errors"
)

const memoryCacheCleanupInterval = 5 * time.Minute

// MemoryCacheRepository keeps cached payloads in process when Redis is not configured.
// Values are stored JSON-encoded so readers never share memory with writers.
type MemoryCacheRepository struct {
	cache *goCache.Cache
}

// NewMemoryCacheRepository constructs an in-process cache.
func NewMemoryCacheRepository(defaultTTL time.Duration) *MemoryCacheRepository {
	if defaultTTL <= 0 {
		defaultTTL = time.Minute
	}
	return &MemoryCacheRepository{cache: goCache.New(defaultTTL, memoryCacheCleanupInterval)}
}

// Get unmarshals the cached value into dest.
func (r *MemoryCacheRepository) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := r.cache.Get(key)
	if !ok {
		return appErrors.ErrCacheMiss
	}
	payload, ok := raw.([]byte)
	if !ok {
		return fmt.Errorf("unexpected cache value type %T for %s", raw, key)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}
	return nil
}

// Set stores value under key for ttl.
func (r *MemoryCacheRepository) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}
	r.cache.Set(key, payload, ttl)
	return nil
}

// DeleteByPattern removes every key matching a glob pattern.
func (r *MemoryCacheRepository) DeleteByPattern(_ context.Context, pattern string) error {
	for key := range r.cache.Items() {
		matched, err := path.Match(pattern, key)
		if err != nil {
			return fmt.Errorf("match cache pattern %s: %w", pattern, err)
		}
		if matched {
			r.cache.Delete(key)
		}
	}
	return nil
}

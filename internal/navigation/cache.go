// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package navigation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// # Memo Cache

// Cache stores the visible paths computed for one memo key.
//
// A miss is (nil, false, nil). Errors are reported but never fatal to callers.
type Cache interface {
	Get(ctx context.Context, key string) ([]string, bool, error)
	Set(ctx context.Context, key string, paths []string, ttl time.Duration) error
}

// RedisCache implements [Cache] as JSON arrays in Redis string keys.
type RedisCache struct {
	client redis.UniversalClient
}

// NewRedisCache creates a [Cache] backed by client.
func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns the memoized paths stored under key.
func (cache *RedisCache) Get(ctx context.Context, key string) ([]string, bool, error) {
	raw, err := cache.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("navigation: cache get: %w", err)
	}

	var paths []string
	if err := json.Unmarshal(raw, &paths); err != nil {
		return nil, false, fmt.Errorf("navigation: corrupt cache entry %q: %w", key, err)
	}
	return paths, true, nil
}

// Set stores paths under key for ttl.
func (cache *RedisCache) Set(ctx context.Context, key string, paths []string, ttl time.Duration) error {
	raw, err := json.Marshal(paths)
	if err != nil {
		return fmt.Errorf("navigation: encode cache entry: %w", err)
	}
	if err := cache.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("navigation: cache set: %w", err)
	}
	return nil
}

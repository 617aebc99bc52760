// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package navigation serves each signed-in member the destinations they may open.

It wraps the pure [access.Filter] with a memo keyed on everything the result
depends on: the role level, the canonical permission set and the registry
version. Two members with the same role and grants share one entry, and a
registry change can never serve a stale list because the version is part of
the key.
*/
package navigation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/churchos/internal/access"
	"github.com/taibuivan/churchos/internal/platform/apperr"
	"github.com/taibuivan/churchos/internal/platform/constants"
	"github.com/taibuivan/churchos/internal/platform/ctxutil"
	"github.com/taibuivan/churchos/pkg/slice"
)

// Decision is the outcome of checking a single path.
type Decision struct {
	Item    access.Item `json:"item"`
	Granted bool        `json:"granted"`
}

// Service answers navigation and access-viewer queries.
type Service struct {
	registry *access.Registry
	cache    Cache
	ttl      time.Duration
}

// NewService creates a Service. A nil cache disables memoization.
func NewService(registry *access.Registry, cache Cache, ttl time.Duration) *Service {
	return &Service{registry: registry, cache: cache, ttl: ttl}
}

// # Navigation

// Visible returns the registry items user may open, in registry order.
//
// Cache failures are logged and the filter runs directly, so this never fails
// because of the memo.
func (service *Service) Visible(ctx context.Context, user access.User) []access.Item {
	if service.cache == nil {
		return service.registry.Visible(user)
	}

	logger := ctxutil.GetLogger(ctx)
	key := service.cacheKey(user)

	paths, found, err := service.cache.Get(ctx, key)
	if err != nil {
		logger.WarnContext(ctx, "navigation_cache_read_failed", slog.String("key", key), slog.Any("error", err))
	}
	if found {
		if items, ok := service.resolve(paths); ok {
			return items
		}
		logger.WarnContext(ctx, "navigation_cache_entry_stale", slog.String("key", key))
	}

	items := service.registry.Visible(user)

	stored := slice.Map(items, func(item access.Item) string { return item.Path })
	if stored == nil {
		stored = []string{}
	}
	if err := service.cache.Set(ctx, key, stored, service.ttl); err != nil {
		logger.WarnContext(ctx, "navigation_cache_write_failed", slog.String("key", key), slog.Any("error", err))
	}

	return items
}

// Check reports whether user may open path.
//
// Paths outside the registry are NOT_FOUND rather than denied.
func (service *Service) Check(_ context.Context, user access.User, path string) (Decision, error) {
	item, found := service.registry.Lookup(path)
	if !found {
		return Decision{}, apperr.NotFound("Navigation item")
	}
	return Decision{Item: item, Granted: access.HasAccess(user, item)}, nil
}

// # Access Viewer

// Roles returns the role hierarchy with default grants, lowest level first.
func (service *Service) Roles() []access.RoleInfo {
	return access.Hierarchy()
}

// Permissions returns the permission catalog in declaration order.
func (service *Service) Permissions() []access.Permission {
	return service.registry.Catalog().Permissions()
}

// # Helpers

func (service *Service) cacheKey(user access.User) string {
	return fmt.Sprintf("%s%s:%d:%s",
		constants.RedisPrefixNavigation, service.registry.Version(), user.Role.Level(), user.Permissions.Key())
}

// resolve maps memoized paths back to registry items. It fails if any path
// is no longer registered.
func (service *Service) resolve(paths []string) ([]access.Item, bool) {
	items := make([]access.Item, 0, len(paths))
	for _, path := range paths {
		item, found := service.registry.Lookup(path)
		if !found {
			return nil, false
		}
		items = append(items, item)
	}
	return items, true
}

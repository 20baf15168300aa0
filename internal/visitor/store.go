// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package visitor

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/olegiv/mvs-cms/internal/cache"
	"github.com/olegiv/mvs-cms/internal/store"
)

// DBStore keeps the count in the site_counters table.
type DBStore struct {
	queries *store.Queries
	name    string
}

// NewDBStore creates a store for the named counter.
func NewDBStore(queries *store.Queries, name string) *DBStore {
	return &DBStore{queries: queries, name: name}
}

// Add increments the counter row, creating it if needed.
func (s *DBStore) Add(ctx context.Context, delta int64) (int64, error) {
	return s.queries.IncrementCounter(ctx, store.IncrementCounterParams{
		Name:      s.name,
		Delta:     delta,
		UpdatedAt: time.Now().UTC(),
	})
}

// Load reads the counter row.
func (s *DBStore) Load(ctx context.Context) (int64, error) {
	n, err := s.queries.GetCounter(ctx, s.name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return n, err
}

// CacheStore keeps the count in the cache, which shares it between
// instances when the cache is Redis.
type CacheStore struct {
	cache cache.Cache
	key   string
}

// NewCacheStore creates a store for the counter at key.
func NewCacheStore(c cache.Cache, key string) *CacheStore {
	return &CacheStore{cache: c, key: key}
}

// Add increments the counter.
func (s *CacheStore) Add(ctx context.Context, delta int64) (int64, error) {
	return s.cache.IncrBy(ctx, s.key, delta)
}

// Load reads the counter by adding zero.
func (s *CacheStore) Load(ctx context.Context) (int64, error) {
	return s.cache.IncrBy(ctx, s.key, 0)
}

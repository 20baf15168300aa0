// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// skipIfNoRedis skips the test if Redis is not configured.
func skipIfNoRedis(t *testing.T) *RedisCache {
	t.Helper()
	url := os.Getenv("MVS_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: MVS_TEST_REDIS_URL not set")
	}

	cache, err := NewRedisCacheFromURL(url, "mvs-test:"+t.Name()+":", time.Minute)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	t.Cleanup(func() {
		deletePrefixed(cache)
		_ = cache.Close()
	})
	return cache
}

// deletePrefixed removes every key the test wrote under its prefix.
func deletePrefixed(c *RedisCache) {
	ctx := context.Background()
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		_ = c.client.Del(ctx, iter.Val()).Err()
	}
}

func TestRedisCache_Basic(t *testing.T) {
	cache := skipIfNoRedis(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "logo", []byte("/uploads/logo.png"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := cache.Get(ctx, "logo")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "/uploads/logo.png" {
		t.Errorf("Get returned %q", got)
	}

	if err := cache.Delete(ctx, "logo"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := cache.Get(ctx, "logo"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestRedisCache_IncrBy(t *testing.T) {
	cache := skipIfNoRedis(t)
	ctx := context.Background()

	n, err := cache.IncrBy(ctx, "visitors", 100982)
	if err != nil {
		t.Fatalf("IncrBy failed: %v", err)
	}
	if n != 100982 {
		t.Errorf("IncrBy = %d, want 100982", n)
	}

	n, _ = cache.IncrBy(ctx, "visitors", 1)
	if n != 100983 {
		t.Errorf("IncrBy = %d, want 100983", n)
	}

	_ = cache.Set(ctx, "text", []byte("hello"), time.Minute)
	if _, err := cache.IncrBy(ctx, "text", 1); !errors.Is(err, ErrNotInteger) {
		t.Errorf("expected ErrNotInteger, got %v", err)
	}
}

func TestRedisCache_Stats(t *testing.T) {
	cache := skipIfNoRedis(t)
	ctx := context.Background()

	_ = cache.Set(ctx, "logo", []byte("/uploads/logo.png"), time.Minute)
	_, _ = cache.Get(ctx, "logo")
	_, _ = cache.Get(ctx, "missing")

	stats := cache.Stats(ctx)
	if stats.Hits != 1 || stats.Misses != 1 || stats.Sets != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.Items != 1 {
		t.Errorf("Items = %d, want 1", stats.Items)
	}
}

func TestRedisCache_Close(t *testing.T) {
	cache := skipIfNoRedis(t)
	ctx := context.Background()

	if err := cache.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if _, err := cache.Get(ctx, "key"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after Close returned %v, want ErrCacheClosed", err)
	}
	if err := cache.Ping(ctx); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Ping after Close returned %v, want ErrCacheClosed", err)
	}
}

func TestRedisCache_InvalidURL(t *testing.T) {
	if _, err := NewRedisCacheFromURL("invalid-url", "test:", time.Minute); err == nil {
		t.Error("expected error with invalid URL, got nil")
	}
	if _, err := NewRedisCacheFromURL("", "test:", time.Minute); err == nil {
		t.Error("expected error with empty URL, got nil")
	}
}

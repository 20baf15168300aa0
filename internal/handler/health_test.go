// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/mvs-cms/internal/cache"
	"github.com/olegiv/mvs-cms/internal/media"
	"github.com/olegiv/mvs-cms/internal/session"
	"github.com/olegiv/mvs-cms/internal/testutil"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthPublic(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	uploads, err := media.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	h := NewHealthHandler(db, session.NewMemory(true), HealthConfig{Uploads: uploads, Version: "1.2.3"})
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, RouteHealth, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]any{"status": statusHealthy}, body)
}

func TestHealthDegraded(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	h := NewHealthHandler(db, nil, HealthConfig{
		Cache: pingerFunc(func(context.Context) error { return errors.New("connection refused") }),
	})
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, RouteHealth, nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), statusDegraded)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestHealthDetailsForAdmins(t *testing.T) {
	app := newTestApp(t)
	stats := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = stats.Close() })
	ctx := context.Background()
	require.NoError(t, stats.Set(ctx, "logo", []byte("/uploads/logo.png"), 0))
	_, _ = stats.Get(ctx, "logo")
	_, _ = stats.Get(ctx, "footer")

	h := NewHealthHandler(app.db, app.sm, HealthConfig{
		CacheStats: stats,
		Uploads:    app.storage,
		Version:    "1.2.3",
	})

	// Serve /health on the app's session stack.
	mux := http.NewServeMux()
	mux.Handle("/", app.handler)
	mux.Handle(RouteHealth, app.sm.LoadAndSave(http.HandlerFunc(h.Health)))
	app.handler = mux

	c := app.client(t)
	c.login()

	resp := c.get(RouteHealth + "?verbose=true")
	require.Equal(t, http.StatusOK, resp.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &status))
	assert.Equal(t, statusHealthy, status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.Equal(t, statusHealthy, status.Checks["database"].Status)
	assert.Equal(t, statusHealthy, status.Checks["uploads"].Status)
	require.NotNil(t, status.System)
	assert.Positive(t, status.System.NumCPU)

	require.NotNil(t, status.Cache)
	assert.Equal(t, int64(1), status.Cache.Hits)
	assert.Equal(t, int64(1), status.Cache.Misses)
	assert.Equal(t, 1, status.Cache.Items)
	assert.InDelta(t, 50.0, status.Cache.HitRate, 0.001)
	assert.Zero(t, countStoredFiles(t, app.storage.Root()), "the check leaves no object behind")
}

func TestHealthPublicHidesCacheStats(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	stats := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = stats.Close() })

	h := NewHealthHandler(db, session.NewMemory(true), HealthConfig{CacheStats: stats})
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, RouteHealth, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hit_rate")
}

func TestCheckUploads(t *testing.T) {
	newStorage := func(t *testing.T) *media.LocalStorage {
		t.Helper()
		s, err := media.NewLocalStorage(filepath.Join(t.TempDir(), "uploads"), "/uploads")
		require.NoError(t, err)
		return s
	}
	ctx := context.Background()

	t.Run("writable", func(t *testing.T) {
		s := newStorage(t)
		check := (&HealthHandler{uploads: s}).checkUploads(ctx)
		assert.Equal(t, statusHealthy, check.Status)
		assert.Equal(t, "Writable", check.Message)

		entries, err := os.ReadDir(s.Root())
		require.NoError(t, err)
		assert.Empty(t, entries, "the check object is removed")
	})

	t.Run("missing", func(t *testing.T) {
		s := newStorage(t)
		require.NoError(t, os.Remove(s.Root()))
		check := (&HealthHandler{uploads: s}).checkUploads(ctx)
		assert.Equal(t, statusHealthy, check.Status)
		assert.NoDirExists(t, s.Root(), "the check does not create the directory")
	})

	t.Run("not a directory", func(t *testing.T) {
		s := newStorage(t)
		require.NoError(t, os.Remove(s.Root()))
		require.NoError(t, os.WriteFile(s.Root(), []byte("x"), 0o600))
		check := (&HealthHandler{uploads: s}).checkUploads(ctx)
		assert.Equal(t, statusUnhealthy, check.Status)
	})
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.50 KB", formatBytes(1536))
	assert.Equal(t, "2.00 MB", formatBytes(2<<20))
	assert.Equal(t, "1.00 GB", formatBytes(1<<30))
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"

	"github.com/olegiv/mvs-cms/internal/cache"
	"github.com/olegiv/mvs-cms/internal/media"
	"github.com/olegiv/mvs-cms/internal/session"
)

// Health statuses
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	db         *sql.DB
	sm         *scs.SessionManager
	cache      Pinger
	cacheStats cache.StatsProvider
	uploads    *media.LocalStorage
	version    string
	startTime  time.Time
}

// HealthConfig holds the optional dependencies checked by /health.
type HealthConfig struct {
	// Cache is checked when set (the Redis backend).
	Cache Pinger
	// CacheStats adds hit and miss counts to the admin details.
	CacheStats cache.StatsProvider
	// Uploads is checked when the local storage backend is used.
	Uploads *media.LocalStorage
	Version string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *sql.DB, sm *scs.SessionManager, cfg HealthConfig) *HealthHandler {
	return &HealthHandler{
		db:         db,
		sm:         sm,
		cache:      cfg.Cache,
		cacheStats: cfg.CacheStats,
		uploads:    cfg.Uploads,
		version:    cfg.Version,
		startTime:  time.Now(),
	}
}

// HealthStatusPublic is the minimal health response for unauthenticated callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus is the detailed response for signed-in admins.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks,omitempty"`
	Cache     *cache.Stats     `json:"cache,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
}

// Health handles GET /health.
// Returns minimal status for visitors and full details for signed-in admins.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"database": h.checkDatabase(r.Context()),
	}
	if h.uploads != nil {
		checks["uploads"] = h.checkUploads(r.Context())
	}
	if h.cache != nil {
		checks["cache"] = h.checkCache(r.Context())
	}

	overall := statusHealthy
	for _, c := range checks {
		if c.Status != statusHealthy {
			overall = statusDegraded
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if overall != statusHealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	if !h.isAuthenticated(r) {
		_ = json.NewEncoder(w).Encode(HealthStatusPublic{Status: overall})
		return
	}

	status := HealthStatus{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    checks,
	}
	if h.cacheStats != nil {
		stats := h.cacheStats.Stats(r.Context())
		status.Cache = &stats
	}
	if r.URL.Query().Get("verbose") == "true" {
		status.System = systemInfo()
	}
	_ = json.NewEncoder(w).Encode(status)
}

// isAuthenticated reports whether the request has an admin session.
// Returns false (without panicking) if session data is not loaded into context.
func (h *HealthHandler) isAuthenticated(r *http.Request) (authenticated bool) {
	if h.sm == nil {
		return false
	}
	defer func() {
		if rec := recover(); rec != nil {
			authenticated = false
		}
	}()
	return session.UserID(h.sm, r.Context()) > 0
}

// checkDatabase verifies database connectivity.
func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	start := time.Now()
	err := h.db.PingContext(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{Status: statusUnhealthy, Message: err.Error(), Latency: latency.String()}
	}
	return Check{Status: statusHealthy, Message: "Connected", Latency: latency.String()}
}

// checkCache verifies the cache backend answers.
func (h *HealthHandler) checkCache(ctx context.Context) Check {
	start := time.Now()
	err := h.cache.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{Status: statusUnhealthy, Message: err.Error(), Latency: latency.String()}
	}
	return Check{Status: statusHealthy, Message: "Connected", Latency: latency.String()}
}

// checkUploads verifies the uploads directory is present and that an
// object can be stored, read back and removed through the storage.
func (h *HealthHandler) checkUploads(ctx context.Context) Check {
	info, err := os.Stat(h.uploads.Root())
	if os.IsNotExist(err) {
		return Check{Status: statusHealthy, Message: "Uploads directory does not exist yet"}
	}
	if err != nil {
		return Check{Status: statusUnhealthy, Message: err.Error()}
	}
	if !info.IsDir() {
		return Check{Status: statusUnhealthy, Message: "Uploads path is not a directory"}
	}

	const payload = "ok"
	key := ".health-" + uuid.NewString()
	if err := h.uploads.Put(ctx, key, strings.NewReader(payload), int64(len(payload)), "text/plain"); err != nil {
		return Check{Status: statusUnhealthy, Message: "Uploads directory is not writable: " + err.Error()}
	}

	data, readErr := h.readObject(key)
	if err := h.uploads.Delete(context.WithoutCancel(ctx), key); err != nil || h.uploads.Exists(key) {
		return Check{Status: statusUnhealthy, Message: "Uploads directory does not remove objects"}
	}
	if readErr != nil {
		return Check{Status: statusUnhealthy, Message: "Uploads directory is not readable: " + readErr.Error()}
	}
	if string(data) != payload {
		return Check{Status: statusUnhealthy, Message: "Uploads directory returned a different object"}
	}

	return Check{Status: statusHealthy, Message: "Writable"}
}

func (h *HealthHandler) readObject(key string) ([]byte, error) {
	f, err := h.uploads.Open(key)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

// systemInfo returns system-level metrics.
func systemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     formatBytes(m.Alloc),
	}
}

// formatBytes converts bytes to a human-readable string.
func formatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

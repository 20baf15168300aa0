// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/mvs-cms/internal/cache"
	"github.com/olegiv/mvs-cms/internal/content"
	"github.com/olegiv/mvs-cms/internal/model"
)

const (
	logoCacheKey = "site:logo"
	logoCacheTTL = 10 * time.Minute
)

// LogoSource serves the header logo URL shown on every page from the
// cache, falling back to the logo table.
type LogoSource struct {
	loader *content.Loader
	cache  *cache.TypedCache[model.Logo]
	logger *slog.Logger
}

// NewLogoSource creates a LogoSource over c.
func NewLogoSource(loader *content.Loader, c cache.Cache, logger *slog.Logger) *LogoSource {
	return &LogoSource{
		loader: loader,
		cache:  cache.NewTypedCache[model.Logo](c, logoCacheTTL),
		logger: logger,
	}
}

// URL returns the logo URL, or "" when no logo is set.
func (s *LogoSource) URL(ctx context.Context) string {
	logo, err := s.cache.GetOrSet(ctx, logoCacheKey, func() (*model.Logo, error) {
		if l := s.loader.Logo(ctx); l != nil {
			return l, nil
		}
		return &model.Logo{}, nil
	})
	if err != nil || logo == nil {
		return ""
	}
	return logo.Image.URL
}

// Invalidate drops the cached logo after it changes.
func (s *LogoSource) Invalidate(r *http.Request) {
	if err := s.cache.Delete(r.Context(), logoCacheKey); err != nil {
		s.logger.Warn("failed to invalidate cached logo", "error", err)
	}
}

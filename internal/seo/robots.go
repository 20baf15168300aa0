// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
)

// RobotsConfig holds configuration for robots.txt generation.
type RobotsConfig struct {
	SiteURL       string   // Base URL for the sitemap reference
	DisallowAll   bool     // Block all crawlers (staging sites)
	DisallowPaths []string // Paths to disallow besides the admin area
}

// defaultDisallow keeps crawlers out of the admin area and the health endpoint.
var defaultDisallow = []string{"/admin", "/health"}

// BuildRobots generates the robots.txt content.
func BuildRobots(cfg RobotsConfig) string {
	var sb strings.Builder

	sb.WriteString("User-agent: *\n")

	if cfg.DisallowAll {
		sb.WriteString("Disallow: /\n")
		return sb.String()
	}

	for _, p := range append(append([]string{}, defaultDisallow...), cfg.DisallowPaths...) {
		sb.WriteString("Disallow: ")
		sb.WriteString(p)
		sb.WriteString("\n")
	}
	sb.WriteString("Allow: /\n")

	if cfg.SiteURL != "" {
		sb.WriteString("\nSitemap: ")
		sb.WriteString(strings.TrimSuffix(cfg.SiteURL, "/"))
		sb.WriteString(SitemapPath)
		sb.WriteString("\n")
	}

	return sb.String()
}

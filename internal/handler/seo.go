// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/mvs-cms/internal/model"
	"github.com/olegiv/mvs-cms/internal/seo"
)

// Crawler routes.
const (
	RouteRobots  = "/robots.txt"
	RouteSitemap = seo.SitemapPath
)

// sitemapPages lists the static public pages with their crawl hints.
var sitemapPages = []struct {
	path     string
	freq     seo.ChangeFreq
	priority float64
}{
	{RouteRoot, seo.ChangeFreqWeekly, 1},
	{RouteEvents, seo.ChangeFreqWeekly, 0.9},
	{RouteFounder, seo.ChangeFreqYearly, 0.6},
	{RouteCertifications, seo.ChangeFreqYearly, 0.4},
	{RouteOurFaith, seo.ChangeFreqYearly, 0.6},
	{RouteChildrensHome, seo.ChangeFreqMonthly, 0.7},
	{RouteOldageHome, seo.ChangeFreqMonthly, 0.7},
	{RouteDonate, seo.ChangeFreqYearly, 0.8},
	{RouteVedapatasala, seo.ChangeFreqMonthly, 0.6},
	{RouteLeadership, seo.ChangeFreqMonthly, 0.6},
	{RouteTVMinistries, seo.ChangeFreqMonthly, 0.6},
	{RouteMagazine, seo.ChangeFreqMonthly, 0.7},
	{RoutePastorsFellowship, seo.ChangeFreqMonthly, 0.6},
}

// SEOHandler serves robots.txt and sitemap.xml.
type SEOHandler struct {
	siteURL string
	noIndex bool
	logger  *slog.Logger
}

// NewSEOHandler creates a new SEOHandler. An empty siteURL is derived
// from each request; noIndex blocks all crawlers.
func NewSEOHandler(siteURL string, noIndex bool, logger *slog.Logger) *SEOHandler {
	return &SEOHandler{
		siteURL: strings.TrimSuffix(siteURL, "/"),
		noIndex: noIndex,
		logger:  logger,
	}
}

// Routes registers the crawler routes on r.
func (h *SEOHandler) Routes(r chi.Router) {
	r.Get(RouteRobots, h.Robots)
	r.Get(RouteSitemap, h.Sitemap)
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	body := seo.BuildRobots(seo.RobotsConfig{
		SiteURL:     h.baseURL(r),
		DisallowAll: h.noIndex,
	})
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(body))
}

// Sitemap handles GET /sitemap.xml.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	if h.noIndex {
		http.NotFound(w, r)
		return
	}

	b := seo.NewSitemapBuilder(h.baseURL(r))
	for _, p := range sitemapPages {
		b.Add(p.path, time.Time{}, p.freq, p.priority)
	}
	for _, lang := range model.Languages {
		b.Add("/newsletter/"+string(lang), time.Time{}, seo.ChangeFreqMonthly, 0.7)
	}

	out, err := b.Build()
	if err != nil {
		h.logger.Error("failed to build sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(out)
}

// baseURL returns the configured site URL or one built from r.
func (h *SEOHandler) baseURL(r *http.Request) string {
	if h.siteURL != "" {
		return h.siteURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds robots.txt and sitemap.xml for the public site.
package seo

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// SitemapPath is where the sitemap is served.
const SitemapPath = "/sitemap.xml"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
	ChangeFreqYearly  ChangeFreq = "yearly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapBuilder collects public URLs under one site root.
type SitemapBuilder struct {
	siteURL string
	seen    map[string]bool
	urls    []SitemapURL
}

// NewSitemapBuilder creates a builder for absolute URLs under siteURL.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: strings.TrimSuffix(siteURL, "/"),
		seen:    make(map[string]bool),
	}
}

// Add appends path to the sitemap. Duplicates are ignored, a zero lastMod
// is omitted and priority is clamped to [0, 1].
func (b *SitemapBuilder) Add(path string, lastMod time.Time, freq ChangeFreq, priority float64) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if b.seen[path] {
		return
	}
	b.seen[path] = true

	u := SitemapURL{
		Loc:        b.siteURL + path,
		ChangeFreq: freq,
		Priority:   strconv.FormatFloat(min(max(priority, 0), 1), 'f', 1, 64),
	}
	if !lastMod.IsZero() {
		u.LastMod = lastMod.UTC().Format("2006-01-02")
	}
	b.urls = append(b.urls, u)
}

// Len returns the number of URLs added.
func (b *SitemapBuilder) Len() int {
	return len(b.urls)
}

// Build renders the sitemap XML document.
func (b *SitemapBuilder) Build() ([]byte, error) {
	out, err := xml.MarshalIndent(Sitemap{XMLNS: XMLNamespace, URLs: b.urls}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Content formats for page content.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// Logo is the site logo shown in the header.
type Logo struct {
	Meta
	Image MediaRef
}

func (l *Logo) Columns() []string     { return []string{"image_url", "image_key"} }
func (l *Logo) Fields() []any         { return []any{&l.Image.URL, &l.Image.Key} }
func (l *Logo) MediaRefs() []MediaRef { return refs(l.Image) }

// HeroVideo is the video shown at the top of the founder page.
type HeroVideo struct {
	Meta
	VideoID string `validate:"required,max=32"`
}

func (h *HeroVideo) Columns() []string { return []string{"video_id"} }
func (h *HeroVideo) Fields() []any     { return []any{&h.VideoID} }

// EmbedURL returns the player URL of the video.
func (h *HeroVideo) EmbedURL() string { return youTubeEmbedURL(h.VideoID) }

// PageContent is a rich-text block for one page, optionally with a PDF.
// Content is stored as entered and sanitized when rendered.
type PageContent struct {
	Meta
	Title   string `validate:"required,max=200"`
	Content string
	Format  string `validate:"required,oneof=html markdown"`
	PDF     MediaRef
}

func (p *PageContent) Columns() []string {
	return []string{"title", "content", "format", "pdf_url", "pdf_key"}
}
func (p *PageContent) Fields() []any {
	return []any{&p.Title, &p.Content, &p.Format, &p.PDF.URL, &p.PDF.Key}
}
func (p *PageContent) MediaRefs() []MediaRef { return refs(p.PDF) }

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/olegiv/mvs-cms/internal/model"
)

var (
	policy   = bluemonday.UGCPolicy()
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

// RenderMarkdown converts markdown to HTML. The output is not sanitized.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Sanitize strips everything from html that is not safe to show visitors.
func Sanitize(html string) template.HTML {
	return template.HTML(policy.Sanitize(html))
}

// RenderBody turns stored page content into safe HTML for display.
// Markdown that fails to convert is shown as escaped text.
func RenderBody(body, format string) template.HTML {
	if format == model.FormatMarkdown {
		html, err := RenderMarkdown(body)
		if err != nil {
			return template.HTML(template.HTMLEscapeString(body))
		}
		return Sanitize(html)
	}
	return Sanitize(body)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the site templates once and executes them with
// the per-request data every page shares.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/mvs-cms/internal/content"
	"github.com/olegiv/mvs-cms/internal/middleware"
	"github.com/olegiv/mvs-cms/internal/model"
	"github.com/olegiv/mvs-cms/internal/session"
	"github.com/olegiv/mvs-cms/internal/visitor"
)

// Template layouts
const (
	baseLayout  = "layouts/base.html"
	adminLayout = "layouts/admin.html"
)

// Renderer handles template rendering with caching.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
	thumbURL       func(model.MediaRef) string
	logoURL        func(context.Context) string
	logger         *slog.Logger
	now            func() time.Time
	isDev          bool
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
	// ThumbURL resolves the thumbnail of an image. Defaults to the image itself.
	ThumbURL func(model.MediaRef) string
	// LogoURL returns the header logo, or "" when none is set.
	LogoURL func(context.Context) string
	Logger  *slog.Logger
	Now     func() time.Time
	IsDev   bool
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		thumbURL:       cfg.ThumbURL,
		logoURL:        cfg.LogoURL,
		logger:         cfg.Logger,
		now:            cfg.Now,
		isDev:          cfg.IsDev,
	}
	if r.thumbURL == nil {
		r.thumbURL = func(ref model.MediaRef) string { return ref.URL }
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.now == nil {
		r.now = time.Now
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates parses every page directory with the layouts it renders in.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	dirs := []struct {
		dir     string
		layouts []string
	}{
		{dir: "public", layouts: []string{baseLayout}},
		{dir: "auth", layouts: []string{baseLayout}},
		{dir: "admin", layouts: []string{baseLayout, adminLayout}},
	}

	for _, d := range dirs {
		pages, err := templateFiles(templatesFS, d.dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", d.dir, err)
		}

		for _, page := range pages {
			name := d.dir + "/" + strings.TrimSuffix(path.Base(page), ".html")

			files := append([]string{}, d.layouts...)
			files = append(files, partials...)
			files = append(files, page)

			tmpl, err := template.New("").Funcs(r.templateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}

	return nil
}

// templateFiles returns all .html files in a directory. A missing
// directory yields no files.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// templateFuncs returns custom template functions.
func (r *Renderer) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": formatDate,
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
		"truncate": func(s string, length int) string {
			runes := []rune(s)
			if len(runes) <= length {
				return s
			}
			return string(runes[:length]) + "..."
		},
		"body":     content.RenderBody,
		"sanitize": content.Sanitize,
		"thumb":    r.thumbURL,
		"monthName": func(m int) string {
			if m < 1 || m > 12 {
				return ""
			}
			return time.Month(m).String()
		},
		"languages": func() []model.Language { return model.Languages },
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
	}
}

// formatDate formats a time or a stored YYYY-MM-DD date for display.
// Unparseable strings are shown unchanged.
func formatDate(v any) string {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return ""
		}
		return d.Format("Jan 2, 2006")
	case string:
		t, err := time.Parse(model.DateLayout, d)
		if err != nil {
			return d
		}
		return t.Format("Jan 2, 2006")
	default:
		return fmt.Sprint(v)
	}
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title        string
	Data         any
	Flash        string
	FlashType    string
	CurrentYear  int
	CSRFField    template.HTML
	Auth         middleware.Auth
	VisitorCount int64
	LogoURL      string
	Path         string
	IsDev        bool
}

// Render renders a template with the given data.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders a template with an explicit status code.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	ctx := req.Context()
	data.CurrentYear = r.now().Year()
	data.CSRFField = middleware.CSRFField(req)
	data.Auth = middleware.GetAuth(ctx)
	data.VisitorCount = visitor.FromContext(ctx)
	data.Path = req.URL.Path
	data.IsDev = r.isDev
	if r.logoURL != nil {
		data.LogoURL = r.logoURL(ctx)
	}

	if r.sessionManager != nil && data.Flash == "" {
		if flash, ok := r.popFlash(ctx); ok {
			data.Flash = flash.Message
			data.FlashType = flash.Type
		}
	}

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Debug("writing response", "template", name, "error", err)
	}
	return nil
}

// popFlash reads the flash from the session. Requests that bypassed the
// session middleware have none.
func (r *Renderer) popFlash(ctx context.Context) (f session.Flash, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
		}
	}()
	return session.PopFlash(r.sessionManager, ctx)
}

// SetFlash sets a flash message in the session.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager != nil {
		session.PutFlash(r.sessionManager, req.Context(), message, flashType)
	}
}

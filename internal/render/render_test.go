// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/mvs-cms/internal/model"
	"github.com/olegiv/mvs-cms/internal/session"
	"github.com/olegiv/mvs-cms/internal/visitor"
)

func testTemplates() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(
			`{{define "base"}}<title>{{.Title}}</title>[{{.LogoURL}}]{{template "flash" .}}{{template "content" .}}<footer>{{.CurrentYear}} {{.VisitorCount}}</footer>{{end}}`)},
		"layouts/admin.html": {Data: []byte(
			`{{define "content"}}<admin>{{template "admin_content" .}}</admin>{{end}}`)},
		"partials/flash.html": {Data: []byte(
			`{{define "flash"}}{{if .Flash}}<div class="{{.FlashType}}">{{.Flash}}</div>{{end}}{{end}}`)},
		"public/page.html": {Data: []byte(
			`{{define "content"}}{{body .Data.Content .Data.Format}}|{{thumb .Data.PDF}}|{{formatDate "2024-03-10"}}{{end}}`)},
		"public/plain.html": {Data: []byte(`{{define "content"}}plain{{end}}`)},
		"auth/login.html":   {Data: []byte(`{{define "content"}}{{.CSRFField}}{{end}}`)},
		"admin/dashboard.html": {Data: []byte(
			`{{define "admin_content"}}dash{{end}}`)},
		"admin/notes.txt": {Data: []byte(`ignored`)},
	}
}

func newTestRenderer(t *testing.T, cfg Config) *Renderer {
	t.Helper()
	if cfg.TemplatesFS == nil {
		cfg.TemplatesFS = testTemplates()
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC) }
	}
	r, err := New(cfg)
	require.NoError(t, err)
	return r
}

func parsed(r *Renderer, name string) bool {
	_, ok := r.templates[name]
	return ok
}

func TestNew_ParsesTemplateDirectories(t *testing.T) {
	r := newTestRenderer(t, Config{})

	for _, name := range []string{"public/page", "public/plain", "auth/login", "admin/dashboard"} {
		assert.True(t, parsed(r, name), name)
	}
	assert.False(t, parsed(r, "admin/notes"))
	assert.False(t, parsed(r, "public/missing"))
}

func TestNew_MissingDirectoriesAreEmpty(t *testing.T) {
	r := newTestRenderer(t, Config{TemplatesFS: fstest.MapFS{
		"layouts/base.html":  {Data: []byte(`{{define "base"}}{{template "content" .}}{{end}}`)},
		"public/plain.html": {Data: []byte(`{{define "content"}}plain{{end}}`)},
	}})
	assert.True(t, parsed(r, "public/plain"))
	assert.False(t, parsed(r, "admin/dashboard"))
}

func TestNew_ParseError(t *testing.T) {
	_, err := New(Config{TemplatesFS: fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{define "base"}}{{end}}`)},
		"public/bad.html":   {Data: []byte(`{{define "content"}}{{if}}{{end}}`)},
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "public/bad")
}

func TestRender_SharedData(t *testing.T) {
	r := newTestRenderer(t, Config{
		LogoURL:  func(context.Context) string { return "/uploads/logo/images/a.png" },
		ThumbURL: func(ref model.MediaRef) string { return "thumb:" + ref.Key },
	})

	req := httptest.NewRequest(http.MethodGet, "/about/our-faith", nil)
	req = req.WithContext(visitor.WithCount(req.Context(), 100990))
	rec := httptest.NewRecorder()

	err := r.Render(rec, req, "public/page", TemplateData{
		Title: "Our Faith",
		Data: &model.PageContent{
			Content: "# Grace\n\n<script>alert(1)</script>",
			Format:  model.FormatMarkdown,
			PDF:     model.MediaRef{Key: "content/our-faith/a.pdf"},
		},
	})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "<title>Our Faith</title>")
	assert.Contains(t, body, "[/uploads/logo/images/a.png]")
	assert.Contains(t, body, "<h1>Grace</h1>")
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "thumb:content/our-faith/a.pdf")
	assert.Contains(t, body, "Mar 10, 2024")
	assert.Contains(t, body, "<footer>2024 100990</footer>")
}

func TestRender_AdminLayout(t *testing.T) {
	r := newTestRenderer(t, Config{})
	rec := httptest.NewRecorder()

	err := r.Render(rec, httptest.NewRequest(http.MethodGet, "/admin", nil), "admin/dashboard", TemplateData{})
	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), "<admin>dash</admin>")
}

func TestRender_UnknownTemplate(t *testing.T) {
	r := newTestRenderer(t, Config{})
	rec := httptest.NewRecorder()

	err := r.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil), "public/missing", TemplateData{})
	require.Error(t, err)
	assert.Empty(t, rec.Body.String())
}

func TestRenderStatus(t *testing.T) {
	r := newTestRenderer(t, Config{})
	rec := httptest.NewRecorder()

	err := r.RenderStatus(rec, httptest.NewRequest(http.MethodGet, "/nope", nil), http.StatusNotFound, "public/plain", TemplateData{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "plain")
}

func TestRender_FlashIsShownOnce(t *testing.T) {
	sm := session.NewMemory(true)
	r := newTestRenderer(t, Config{SessionManager: sm})

	mux := http.NewServeMux()
	mux.HandleFunc("/set", func(w http.ResponseWriter, req *http.Request) {
		r.SetFlash(req, "Saved", session.FlashSuccess)
	})
	mux.HandleFunc("/show", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, r.Render(w, req, "public/plain", TemplateData{}))
	})
	srv := httptest.NewServer(sm.LoadAndSave(mux))
	defer srv.Close()

	client := srv.Client()
	resp, err := client.Get(srv.URL + "/set")
	require.NoError(t, err)
	_ = resp.Body.Close()
	cookies := resp.Cookies()

	get := func() string {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/show", nil)
		require.NoError(t, err)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		buf := new(strings.Builder)
		_, _ = io.Copy(buf, resp.Body)
		return buf.String()
	}

	assert.Contains(t, get(), `<div class="success">Saved</div>`)
	assert.NotContains(t, get(), "Saved")
}

func TestRender_WithoutSessionMiddleware(t *testing.T) {
	r := newTestRenderer(t, Config{SessionManager: session.NewMemory(true)})
	rec := httptest.NewRecorder()

	err := r.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil), "public/plain", TemplateData{})
	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), "plain")
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"stored date", "2024-12-25", "Dec 25, 2024"},
		{"malformed date", "soon", "soon"},
		{"time", time.Date(2023, 1, 2, 15, 0, 0, 0, time.UTC), "Jan 2, 2023"},
		{"zero time", time.Time{}, ""},
		{"other", 7, "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDate(tt.in))
		})
	}
}

func TestTemplateFuncs_Truncate(t *testing.T) {
	r := newTestRenderer(t, Config{})
	truncate := r.templateFuncs()["truncate"].(func(string, int) string)

	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "héllo...", truncate("héllo wörld", 5))
}

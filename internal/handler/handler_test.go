// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"database/sql"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/mvs-cms/internal/auth"
	"github.com/olegiv/mvs-cms/internal/cache"
	"github.com/olegiv/mvs-cms/internal/collection"
	"github.com/olegiv/mvs-cms/internal/content"
	"github.com/olegiv/mvs-cms/internal/media"
	"github.com/olegiv/mvs-cms/internal/middleware"
	"github.com/olegiv/mvs-cms/internal/render"
	"github.com/olegiv/mvs-cms/internal/session"
	"github.com/olegiv/mvs-cms/internal/store"
	"github.com/olegiv/mvs-cms/internal/testutil"
	"github.com/olegiv/mvs-cms/web"
)

const (
	testAdminEmail    = "admin@example.org"
	testAdminPassword = "correct horse battery"
)

var testToday = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// testApp is the site wired the way the server wires it, minus CSRF
// and rate limits.
type testApp struct {
	db      *sql.DB
	catalog *content.Catalog
	storage *media.LocalStorage
	sm      *scs.SessionManager
	cache   *cache.MemoryCache
	logo    *LogoSource
	lp      *middleware.LoginProtection
	admin   *AdminHandler
	handler http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	logger := testutil.TestLoggerSilent()
	clock := testutil.NewClock(testToday)

	storage, err := media.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	binder := media.NewBinder(storage, nil, logger)
	catalog := content.NewCatalog(db, collection.Deps{Media: binder, Logger: logger, Now: clock.Ticking(time.Second)})
	loader := content.NewLoader(catalog, logger, clock.Now)

	mc := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = mc.Close() })
	logo := NewLogoSource(loader, mc, logger)

	templates, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	sm := session.NewMemory(true)
	renderer, err := render.New(render.Config{
		TemplatesFS:    templates,
		SessionManager: sm,
		ThumbURL:       binder.ThumbURL,
		LogoURL:        logo.URL,
		Logger:         logger,
		Now:            clock.Now,
		IsDev:          true,
	})
	require.NoError(t, err)

	require.NoError(t, store.Seed(context.Background(), db, store.AdminSeed{
		Email:    testAdminEmail,
		Password: testAdminPassword,
	}))
	authenticator, err := auth.NewAuthenticator(store.New(db), logger)
	require.NoError(t, err)

	lp := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	t.Cleanup(lp.Close)

	public := NewPublicHandler(loader, renderer, logger)
	admin := NewAdminHandler(renderer, binder, logger, 0)
	admin.RegisterCatalog(catalog, logo.Invalidate)
	admin.SetEventLog(store.New(db))
	authHandler := NewAuthHandler(authenticator, renderer, sm, lp, logger)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(middleware.ResolveAuth(sm, authenticator, logger))
	public.Routes(r)
	r.Route(RouteAdmin, func(r chi.Router) {
		r.Get(RouteLogin, authHandler.LoginForm)
		r.Post(RouteLogin, authHandler.Login)
		r.Post(RouteLogout, authHandler.Logout)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			admin.Routes(r)
		})
	})
	r.Handle("/uploads/*", Uploads("/uploads", storage.Root()))
	r.NotFound(public.NotFound)

	return &testApp{
		db:      db,
		catalog: catalog,
		storage: storage,
		sm:      sm,
		cache:   mc,
		logo:    logo,
		lp:      lp,
		admin:   admin,
		handler: r,
	}
}

// testClient keeps cookies between requests and never follows redirects.
type testClient struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
}

func (a *testApp) client(t *testing.T) *testClient {
	t.Helper()
	srv := httptest.NewServer(a.handler)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := srv.Client()
	c.Jar = jar
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &testClient{t: t, server: srv, client: c}
}

type testResponse struct {
	Code     int
	Location string
	Header   http.Header
	Body     string
}

func (c *testClient) do(req *http.Request) testResponse {
	c.t.Helper()
	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return testResponse{
		Code:     resp.StatusCode,
		Location: resp.Header.Get("Location"),
		Header:   resp.Header,
		Body:     string(body),
	}
}

func (c *testClient) get(path string) testResponse {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodGet, c.server.URL+path, nil)
	require.NoError(c.t, err)
	return c.do(req)
}

func (c *testClient) postForm(path string, form url.Values) testResponse {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodPost, c.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *testClient) postMultipart(path string, body *bytes.Buffer, contentType string) testResponse {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodPost, c.server.URL+path, body)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", contentType)
	return c.do(req)
}

func (c *testClient) postJSON(path, body string) testResponse {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodPost, c.server.URL+path, strings.NewReader(body))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// login signs the client in as the seeded admin.
func (c *testClient) login() {
	c.t.Helper()
	resp := c.postForm(redirectLogin, url.Values{
		"email":    {testAdminEmail},
		"password": {testAdminPassword},
	})
	require.Equal(c.t, http.StatusSeeOther, resp.Code)
	require.Equal(c.t, redirectAdmin, resp.Location)
}

// upload is one file part of a multipart body.
type upload struct {
	field string
	name  string
	data  []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...upload) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{G: 180, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func pdfBytes() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/mvs-cms/internal/content"
	"github.com/olegiv/mvs-cms/internal/model"
	"github.com/olegiv/mvs-cms/internal/store"
)

func countStoredFiles(t *testing.T, root string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	require.NoError(t, err)
	return n
}

func TestAdminRequiresLogin(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	for _, path := range []string{"/admin", "/admin/banners", "/admin/content/our-faith"} {
		resp := c.get(path)
		assert.Equal(t, http.StatusSeeOther, resp.Code, path)
		assert.Equal(t, redirectLogin, resp.Location, path)
	}

	body, ct := multipartBody(t, map[string]string{"subtitle": "Sneaky"}, upload{"images", "a.png", pngBytes(t, 8, 8)})
	resp := c.postMultipart("/admin/banners", body, ct)
	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, redirectLogin, resp.Location)

	items, err := app.catalog.Banners[content.SectionHome].List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAdminDashboard(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.login()

	resp := c.get("/admin")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body, "Welcome back, Administrator")
	assert.Contains(t, resp.Body, `href="/admin/banners"`)
	assert.Contains(t, resp.Body, `href="/admin/content/our-faith"`)
	assert.Contains(t, resp.Body, `href="/admin/logo"`)
	assert.Contains(t, resp.Body, "Publications")
	assert.NotContains(t, resp.Body, "Recent Problems")
}

func TestAdminDashboardShowsEventLog(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, store.New(app.db).CreateLogEntry(context.Background(), store.CreateLogEntryParams{
		Level:     model.LogLevelWarning,
		Category:  model.LogCategoryContent,
		Message:   "fetch failed for events",
		Metadata:  "{}",
		CreatedAt: testToday,
	}))

	c := app.client(t)
	c.login()

	resp := c.get("/admin")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body, "Recent Problems")
	assert.Contains(t, resp.Body, "fetch failed for events")
	assert.Contains(t, resp.Body, "Jun 15, 2024 12:00 PM")
}

func TestAdminCreateBannerPerFile(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.login()

	first := pngBytes(t, 40, 20)
	second := pngBytes(t, 30, 30)
	body, ct := multipartBody(t, map[string]string{"subtitle": "Welcome"},
		upload{"images", "one.png", first},
		upload{"images", "two.png", second},
	)
	resp := c.postMultipart("/admin/banners", body, ct)
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/admin/banners", resp.Location)

	page := c.get(resp.Location)
	assert.Contains(t, page.Body, "Home Banners: 2 items added")
	assert.Contains(t, page.Body, "Welcome")

	items, err := app.catalog.Banners[content.SectionHome].List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	served := make(map[string]bool)
	for _, b := range items {
		assert.Equal(t, "Welcome", b.Subtitle)
		assert.True(t, strings.HasPrefix(b.Image.Key, "banners/home/"), b.Image.Key)
		assert.True(t, app.storage.Exists(b.Image.Key))

		file := c.get(b.Image.URL)
		require.Equal(t, http.StatusOK, file.Code)
		served[file.Body] = true
	}
	assert.True(t, served[string(first)])
	assert.True(t, served[string(second)])

	// Two originals and two thumbnails.
	assert.Equal(t, 4, countStoredFiles(t, app.storage.Root()))

	// The public home page shows the new banner.
	home := c.get("/")
	assert.Contains(t, home.Body, "Welcome")
}

func TestAdminCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		fields  map[string]string
		files   func(t *testing.T) []upload
		message string
	}{
		{
			name:   "missing subtitle",
			path:   "/admin/banners",
			fields: map[string]string{},
			files: func(t *testing.T) []upload {
				return []upload{{"images", "a.png", pngBytes(t, 8, 8)}}
			},
			message: "subtitle is required",
		},
		{
			name:    "missing image",
			path:    "/admin/banners",
			fields:  map[string]string{"subtitle": "Welcome"},
			files:   func(*testing.T) []upload { return nil },
			message: "images is required",
		},
		{
			name:   "not an image",
			path:   "/admin/banners",
			fields: map[string]string{"subtitle": "Welcome"},
			files: func(*testing.T) []upload {
				return []upload{{"images", "notes.png", []byte("just some text")}}
			},
			message: "file type is not allowed here",
		},
		{
			name:   "malformed event date",
			path:   "/admin/events",
			fields: map[string]string{"title": "Picnic", "description": "Bring food", "date": "next week"},
			files: func(t *testing.T) []upload {
				return []upload{{"image", "a.png", pngBytes(t, 8, 8)}}
			},
			message: "date must be a date (YYYY-MM-DD)",
		},
		{
			name:   "two files for a single slot",
			path:   "/admin/events",
			fields: map[string]string{"title": "Picnic", "description": "Bring food", "date": "2024-07-01"},
			files: func(t *testing.T) []upload {
				return []upload{{"image", "a.png", pngBytes(t, 8, 8)}, {"image", "b.png", pngBytes(t, 8, 8)}}
			},
			message: "image accepts a single file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			c := app.client(t)
			c.login()

			body, ct := multipartBody(t, tt.fields, tt.files(t)...)
			resp := c.postMultipart(tt.path, body, ct)
			require.Equal(t, http.StatusSeeOther, resp.Code)
			assert.Equal(t, tt.path, resp.Location)

			page := c.get(resp.Location)
			assert.Contains(t, page.Body, tt.message)

			banners, err := app.catalog.Banners[content.SectionHome].List(context.Background())
			require.NoError(t, err)
			events, err := app.catalog.Events.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, banners)
			assert.Empty(t, events)
			assert.Zero(t, countStoredFiles(t, app.storage.Root()), "nothing may be left in storage")
		})
	}
}

func TestAdminCreateWithoutFiles(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.login()

	resp := c.postForm("/admin/childrens-home-testimonials", url.Values{
		"quote":  {"This place is home."},
		"author": {"Ravi"},
	})
	require.Equal(t, http.StatusSeeOther, resp.Code)

	items, err := app.catalog.Testimonials[content.SectionChildrensHome].List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Ravi", items[0].Author)
}

func TestCollectionInsertPerFileSlotNeedsFiles(t *testing.T) {
	app := newTestApp(t)
	sec := app.admin.galleryAdmin("optional-gallery", "Optional Gallery", groupHome,
		app.catalog.Galleries[content.SectionHome], content.SectionHome)
	gallery := sec.(*collectionAdmin[model.GalleryImage, *model.GalleryImage])
	gallery.slots[0].required = false

	body, ct := multipartBody(t, map[string]string{"title": "Caption only"})
	req := httptest.NewRequest(http.MethodPost, "/admin/optional-gallery", body)
	req.Header.Set("Content-Type", ct)

	created, err := gallery.insert(httptest.NewRecorder(), req, app.admin)
	assert.Zero(t, created)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "is required", verr.Fields["images"])

	items, err := app.catalog.Galleries[content.SectionHome].List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAdminDelete(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.login()

	body, ct := multipartBody(t, map[string]string{"title": "Picnic", "description": "Bring food", "date": "2024-07-01"},
		upload{"image", "a.png", pngBytes(t, 16, 16)})
	require.Equal(t, http.StatusSeeOther, c.postMultipart("/admin/events", body, ct).Code)

	items, err := app.catalog.Events.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 2, countStoredFiles(t, app.storage.Root()))

	resp := c.postForm("/admin/events/"+items[0].ID+"/delete", nil)
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/admin/events", resp.Location)
	assert.Contains(t, c.get(resp.Location).Body, "Events: item deleted")

	remaining, err := app.catalog.Events.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, remaining)
	assert.Zero(t, countStoredFiles(t, app.storage.Root()))

	resp = c.postForm("/admin/events/"+items[0].ID+"/delete", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestAdminReorder(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.login()
	ctx := context.Background()
	store := app.catalog.Testimonials[content.SectionOldageHome]

	_, err := store.Insert(ctx,
		model.Testimonial{Quote: "First", Author: "A"},
		model.Testimonial{Quote: "Second", Author: "B"},
		model.Testimonial{Quote: "Third", Author: "C"},
	)
	require.NoError(t, err)

	authors := func() string {
		items, err := store.List(ctx)
		require.NoError(t, err)
		var s []string
		for _, it := range items {
			s = append(s, it.Author)
		}
		return strings.Join(s, "")
	}
	idOf := func(author string) string {
		items, err := store.List(ctx)
		require.NoError(t, err)
		for _, it := range items {
			if it.Author == author {
				return it.ID
			}
		}
		t.Fatalf("no testimonial by %s", author)
		return ""
	}
	base := "/admin/oldage-home-testimonials/"

	require.Equal(t, "ABC", authors())

	t.Run("form move up", func(t *testing.T) {
		resp := c.postForm(base+idOf("C")+"/reorder?dir=up", nil)
		require.Equal(t, http.StatusSeeOther, resp.Code)
		assert.Equal(t, "ACB", authors())
	})

	t.Run("json move down", func(t *testing.T) {
		resp := c.postJSON(base+idOf("A")+"/reorder", `{"direction":"down"}`)
		require.Equal(t, http.StatusOK, resp.Code)
		var out map[string]any
		require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
		assert.Equal(t, true, out["success"])
		assert.Equal(t, "CAB", authors())
	})

	t.Run("first row up is a no-op", func(t *testing.T) {
		resp := c.postForm(base+idOf("C")+"/reorder", url.Values{"dir": {"up"}})
		require.Equal(t, http.StatusSeeOther, resp.Code)
		assert.Equal(t, "CAB", authors())
	})

	t.Run("bad direction", func(t *testing.T) {
		resp := c.postJSON(base+idOf("A")+"/reorder", `{"direction":"sideways"}`)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Contains(t, resp.Body, "must be up or down")
		assert.Equal(t, "CAB", authors())
	})

	t.Run("unknown id", func(t *testing.T) {
		resp := c.postJSON(base+"missing/reorder", `{"direction":"up"}`)
		assert.Equal(t, http.StatusNotFound, resp.Code)

		resp = c.postForm(base+"missing/reorder?dir=up", nil)
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("unordered tables have no reorder route", func(t *testing.T) {
		resp := c.postForm("/admin/events/anything/reorder?dir=up", nil)
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestAdminPageContent(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.login()
	ctx := context.Background()
	const path = "/admin/content/founder"

	form := c.get(path)
	require.Equal(t, http.StatusOK, form.Code)
	assert.NotContains(t, form.Body, "Last updated")

	body, ct := multipartBody(t, map[string]string{
		"title":   "Our Founder",
		"format":  model.FormatMarkdown,
		"content": "Born in **1950**.",
	}, upload{"pdf", "bio.pdf", pdfBytes()})
	resp := c.postMultipart(path, body, ct)
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Contains(t, c.get(resp.Location).Body, "Founder Content saved")

	page, ok, err := app.catalog.Pages[content.SectionFounder].Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Our Founder", page.Title)
	require.False(t, page.PDF.IsZero())
	pdfKey := page.PDF.Key

	// Saving without a file keeps the stored PDF.
	body, ct = multipartBody(t, map[string]string{
		"title":   "Our Founder",
		"format":  model.FormatMarkdown,
		"content": "Born in **1951**.",
	})
	require.Equal(t, http.StatusSeeOther, c.postMultipart(path, body, ct).Code)
	page, _, err = app.catalog.Pages[content.SectionFounder].Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, pdfKey, page.PDF.Key)
	assert.True(t, app.storage.Exists(pdfKey))

	public := c.get("/about/founder")
	assert.Contains(t, public.Body, "<strong>1951</strong>")
	assert.Contains(t, public.Body, page.PDF.URL)

	// remove_pdf clears the reference and the stored object.
	body, ct = multipartBody(t, map[string]string{
		"title":      "Our Founder",
		"format":     model.FormatHTML,
		"content":    "<p>Short bio</p>",
		"remove_pdf": "1",
	})
	require.Equal(t, http.StatusSeeOther, c.postMultipart(path, body, ct).Code)
	page, _, err = app.catalog.Pages[content.SectionFounder].Get(ctx)
	require.NoError(t, err)
	assert.True(t, page.PDF.IsZero())
	assert.False(t, app.storage.Exists(pdfKey))

	form = c.get(path)
	assert.Contains(t, form.Body, "Last updated")
	assert.Contains(t, form.Body, "Short bio")
}

func TestAdminPageContentRejectsUnknownFormat(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.login()

	resp := c.postForm("/admin/content/our-faith", url.Values{
		"title":   {"Faith"},
		"format":  {"rtf"},
		"content": {"x"},
	})
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Contains(t, c.get(resp.Location).Body, "format must be one of")

	_, ok, err := app.catalog.Pages[content.SectionOurFaith].Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAdminFounderHero(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.login()

	resp := c.postForm("/admin/founder-hero", url.Values{"url": {"https://example.org/video"}})
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Contains(t, c.get(resp.Location).Body, "url please enter a valid YouTube URL")

	resp = c.postForm("/admin/founder-hero", url.Values{"url": {"https://youtu.be/dQw4w9WgXcQ"}})
	require.Equal(t, http.StatusSeeOther, resp.Code)

	hero, ok, err := app.catalog.FounderHero.Get(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dQw4w9WgXcQ", hero.VideoID)

	form := c.get("/admin/founder-hero")
	assert.Contains(t, form.Body, "https://www.youtube.com/embed/dQw4w9WgXcQ")
}

func TestAdminLogoInvalidatesCachedURL(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.login()
	ctx := context.Background()

	// Prime the cache with "no logo".
	assert.Empty(t, app.logo.URL(ctx))
	assert.NotContains(t, c.get("/").Body, "/uploads/logo/")

	resp := c.postForm("/admin/logo", nil)
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Contains(t, c.get(resp.Location).Body, "image is required")

	body, ct := multipartBody(t, nil, upload{"image", "logo.png", pngBytes(t, 64, 32)})
	resp = c.postMultipart("/admin/logo", body, ct)
	require.Equal(t, http.StatusSeeOther, resp.Code)

	logo, ok, err := app.catalog.Logo.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, logo.Image.URL, app.logo.URL(ctx))
	assert.Contains(t, c.get("/").Body, logo.Image.URL)

	// Replacing the logo removes the previous image.
	old := logo.Image.Key
	body, ct = multipartBody(t, nil, upload{"image", "logo2.png", pngBytes(t, 64, 32)})
	require.Equal(t, http.StatusSeeOther, c.postMultipart("/admin/logo", body, ct).Code)
	assert.False(t, app.storage.Exists(old))
	assert.NotEqual(t, logo.Image.URL, app.logo.URL(ctx))
}

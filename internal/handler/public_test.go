// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/mvs-cms/internal/content"
	"github.com/olegiv/mvs-cms/internal/model"
)

func TestPublicPagesRenderOnEmptyDatabase(t *testing.T) {
	app := newTestApp(t)

	paths := []string{
		"/",
		"/events",
		"/about/founder",
		"/about/certifications",
		"/about/our-faith",
		"/childrens-home",
		"/oldage-home",
		"/donate",
		"/newsletter/english",
		"/newsletter/norwegian",
		"/bible-schools/veda-patasala-vizag",
		"/ministries/leadership",
		"/ministries/tv-ministries",
		"/ministries/magazine",
		"/ministries/pastors-fellowship",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), "Manna Vision Society")
		})
	}
}

func TestPublicHome(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	_, err := app.catalog.Banners[content.SectionHome].Insert(ctx,
		model.Banner{Subtitle: "Serving with love", Image: model.MediaRef{Key: "banners/home/a.png", URL: "/uploads/banners/home/a.png"}})
	require.NoError(t, err)
	_, err = app.catalog.Events.Insert(ctx,
		model.Event{Title: "Harvest Festival", Description: "All welcome", Date: "2024-07-01"},
		model.Event{Title: "Last Year", Description: "Done", Date: "2023-07-01"},
	)
	require.NoError(t, err)

	resp := app.client(t).get("/")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body, "Serving with love")
	assert.Contains(t, resp.Body, "Harvest Festival")
	assert.Contains(t, resp.Body, "Jul 1, 2024")
	assert.NotContains(t, resp.Body, "Last Year")
}

func TestPublicOurFaithRendersSanitizedContent(t *testing.T) {
	app := newTestApp(t)

	_, err := app.catalog.Pages[content.SectionOurFaith].Upsert(context.Background(), model.PageContent{
		Title:   "What We Believe",
		Content: "## Grace\n\n<script>alert(1)</script>",
		Format:  model.FormatMarkdown,
	})
	require.NoError(t, err)

	resp := app.client(t).get("/about/our-faith")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body, "What We Believe")
	assert.Contains(t, resp.Body, "<h2>Grace</h2>")
	assert.NotContains(t, resp.Body, "alert(1)")
}

func TestPublicNewsletter(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	pdf := model.MediaRef{Key: "newsletters/pdfs/a.pdf", URL: "/uploads/newsletters/pdfs/a.pdf"}
	img := model.MediaRef{Key: "newsletters/images/a.png", URL: "/uploads/newsletters/images/a.png"}
	_, err := app.catalog.Newsletters.Insert(ctx,
		model.Newsletter{Year: 2024, Title: "Spring 2024", Language: model.LanguageEnglish, PublishedDate: "2024-03-01", Image: img, PDF: pdf},
		model.Newsletter{Year: 2023, Title: "Winter 2023", Language: model.LanguageEnglish, PublishedDate: "2023-12-01", Image: img, PDF: pdf},
		model.Newsletter{Year: 2024, Title: "Var 2024", Language: model.LanguageNorwegian, PublishedDate: "2024-04-01", Image: img, PDF: pdf},
	)
	require.NoError(t, err)

	c := app.client(t)

	t.Run("defaults to newest year", func(t *testing.T) {
		resp := c.get("/newsletter/english")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body, "Spring 2024")
		assert.NotContains(t, resp.Body, "Winter 2023")
		assert.NotContains(t, resp.Body, "Var 2024")
		assert.Contains(t, resp.Body, `href="?year=2023"`)
	})

	t.Run("explicit year", func(t *testing.T) {
		resp := c.get("/newsletter/english?year=2023")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body, "Winter 2023")
		assert.NotContains(t, resp.Body, "Spring 2024")
	})

	t.Run("all years", func(t *testing.T) {
		resp := c.get("/newsletter/english?year=all")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body, "Winter 2023")
		assert.Contains(t, resp.Body, "Spring 2024")
	})

	t.Run("year without issues", func(t *testing.T) {
		resp := c.get("/newsletter/english?year=1999")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body, "No newsletters available for 1999.")
	})

	t.Run("other language", func(t *testing.T) {
		resp := c.get("/newsletter/norwegian")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body, "Var 2024")
		assert.NotContains(t, resp.Body, "Spring 2024")
	})

	t.Run("unknown language", func(t *testing.T) {
		resp := c.get("/newsletter/german")
		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Contains(t, resp.Body, "Page Not Found")
	})
}

func TestPublicMagazineYearFilter(t *testing.T) {
	app := newTestApp(t)

	cover := model.MediaRef{Key: "magazines/covers/a.png", URL: "/uploads/magazines/covers/a.png"}
	_, err := app.catalog.Magazines.Insert(context.Background(),
		model.Magazine{Year: 2024, Month: 2, Title: "February Issue", Cover: cover},
		model.Magazine{Year: 2022, Month: 5, Title: "May Issue", Cover: cover},
	)
	require.NoError(t, err)

	c := app.client(t)
	resp := c.get("/ministries/magazine")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body, "February Issue")
	assert.NotContains(t, resp.Body, "May Issue")

	resp = c.get("/ministries/magazine?year=all")
	assert.Contains(t, resp.Body, "February Issue")
	assert.Contains(t, resp.Body, "May Issue")
}

func TestPublicUnknownRoute(t *testing.T) {
	app := newTestApp(t)

	resp := app.client(t).get("/no/such/page")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body, "Page Not Found")
}

func TestYearParam(t *testing.T) {
	tests := []struct {
		query    string
		year     int
		explicit bool
	}{
		{"", 0, false},
		{"?year=2024", 2024, true},
		{"?year=all", 0, true},
		{"?year=abc", 0, false},
		{"?year=-3", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			year, explicit := yearParam(httptest.NewRequest(http.MethodGet, "/ministries/magazine"+tt.query, nil))
			assert.Equal(t, tt.year, year)
			assert.Equal(t, tt.explicit, explicit)
		})
	}
}

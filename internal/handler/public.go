// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/mvs-cms/internal/content"
	"github.com/olegiv/mvs-cms/internal/model"
	"github.com/olegiv/mvs-cms/internal/render"
)

// yearAll is the ?year= value that disables the year filter.
const yearAll = "all"

// PublicHandler serves the visitor-facing pages. Every page is fetched
// fresh on each request; failed sections render empty.
type PublicHandler struct {
	loader   *content.Loader
	renderer *render.Renderer
	logger   *slog.Logger
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(loader *content.Loader, renderer *render.Renderer, logger *slog.Logger) *PublicHandler {
	return &PublicHandler{
		loader:   loader,
		renderer: renderer,
		logger:   logger,
	}
}

// Routes registers the public pages on r.
func (h *PublicHandler) Routes(r chi.Router) {
	r.Get(RouteRoot, h.Home)
	r.Get(RouteEvents, h.Events)
	r.Get(RouteFounder, h.Founder)
	r.Get(RouteCertifications, h.Certifications)
	r.Get(RouteOurFaith, h.OurFaith)
	r.Get(RouteChildrensHome, h.ChildrensHome)
	r.Get(RouteOldageHome, h.OldageHome)
	r.Get(RouteDonate, h.Donate)
	r.Get(RouteNewsletter, h.Newsletter)
	r.Get(RouteVedapatasala, h.Vedapatasala)
	r.Get(RouteLeadership, h.Leadership)
	r.Get(RouteTVMinistries, h.TVMinistries)
	r.Get(RouteMagazine, h.Magazine)
	r.Get(RoutePastorsFellowship, h.PastorsFellowship)
}

func (h *PublicHandler) page(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	renderPage(w, r, h.renderer, "public/"+name, render.TemplateData{Title: title, Data: data})
}

// Home handles GET /.
func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, "home", "Home", h.loader.Home(r.Context()))
}

// Events handles GET /events.
func (h *PublicHandler) Events(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, "events", "Events", h.loader.Events(r.Context()))
}

// Founder handles GET /about/founder.
func (h *PublicHandler) Founder(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, "founder", "Our Founder", h.loader.Founder(r.Context()))
}

// Certifications handles GET /about/certifications.
func (h *PublicHandler) Certifications(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, "certifications", "Certifications", h.loader.Certifications(r.Context()))
}

// OurFaith handles GET /about/our-faith.
func (h *PublicHandler) OurFaith(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, "our_faith", "Our Faith", h.loader.Page(r.Context(), content.SectionOurFaith))
}

// ChildrensHome handles GET /childrens-home.
func (h *PublicHandler) ChildrensHome(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, "childrens_home", "Children's Home", h.loader.ChildrensHome(r.Context()))
}

// OldageHome handles GET /oldage-home.
func (h *PublicHandler) OldageHome(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, "oldage_home", "Old Age Home", h.loader.OldageHome(r.Context()))
}

// Donate handles GET /donate.
func (h *PublicHandler) Donate(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, "donate", "Donate", h.loader.Donations(r.Context()))
}

// Newsletter handles GET /newsletter/{language}. Without ?year= the
// newest year is shown; ?year=all shows every issue.
func (h *PublicHandler) Newsletter(w http.ResponseWriter, r *http.Request) {
	lang, ok := model.ParseLanguage(chi.URLParam(r, "language"))
	if !ok {
		h.NotFound(w, r)
		return
	}

	year, explicit := yearParam(r)
	p := h.loader.Newsletters(r.Context(), lang, year)
	if !explicit && len(p.Years) > 0 {
		p.Year = p.Years[0]
		p.Newsletters = content.FilterByYear(p.Newsletters, p.Year, content.NewsletterYear)
	}
	h.page(w, r, "newsletter", lang.Label()+" Newsletter", p)
}

// Vedapatasala handles GET /bible-schools/veda-patasala-vizag.
func (h *PublicHandler) Vedapatasala(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, "vedapatasala", "Veda Patasala Vizag", h.loader.Vedapatasala(r.Context()))
}

// Leadership handles GET /ministries/leadership.
func (h *PublicHandler) Leadership(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, "leadership", "Leadership", h.loader.Leadership(r.Context()))
}

// TVMinistries handles GET /ministries/tv-ministries.
func (h *PublicHandler) TVMinistries(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, "tv_ministries", "TV Ministries", h.loader.TVMinistries(r.Context()))
}

// Magazine handles GET /ministries/magazine with the same year
// selection as the newsletters.
func (h *PublicHandler) Magazine(w http.ResponseWriter, r *http.Request) {
	year, explicit := yearParam(r)
	p := h.loader.Magazines(r.Context(), year)
	if !explicit && len(p.Years) > 0 {
		p.Year = p.Years[0]
		p.Magazines = content.FilterByYear(p.Magazines, p.Year, content.MagazineYear)
	}
	h.page(w, r, "magazine", "Magazine", p)
}

// PastorsFellowship handles GET /ministries/pastors-fellowship.
func (h *PublicHandler) PastorsFellowship(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, "pastors_fellowship", "Pastors Fellowship", h.loader.PastorsFellowship(r.Context()))
}

// NotFound renders the 404 page.
func (h *PublicHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.RenderStatus(w, r, http.StatusNotFound, "public/not_found", render.TemplateData{Title: "Page Not Found"}); err != nil {
		h.logger.Error("failed to render not found page", "error", err)
		http.NotFound(w, r)
	}
}

// yearParam reads ?year=. explicit is false when the parameter is
// missing or malformed; "all" is explicit with year zero.
func yearParam(r *http.Request) (year int, explicit bool) {
	raw := r.URL.Query().Get("year")
	if raw == yearAll {
		return 0, true
	}
	y, err := strconv.Atoi(raw)
	if err != nil || y <= 0 {
		return 0, false
	}
	return y, true
}

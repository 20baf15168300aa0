// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/mvs-cms/internal/media"
	"github.com/olegiv/mvs-cms/internal/model"
	"github.com/olegiv/mvs-cms/internal/render"
	"github.com/olegiv/mvs-cms/internal/scheduler"
)

// maxFilesPerRequest bounds the request body of a multi-file upload
// together with the per-file limit.
const maxFilesPerRequest = 16

// multipartMemory is how much of a multipart body is kept in memory
// before spilling to temporary files.
const multipartMemory = 32 << 20

// adminSection is a group of admin routes listed on the dashboard.
type adminSection interface {
	Slug() string
	Title() string
	Group() string
	// Path is the section's route relative to /admin.
	Path() string
	mount(r chi.Router, h *AdminHandler, upload []func(http.Handler) http.Handler)
}

// AdminHandler serves the content manager.
type AdminHandler struct {
	renderer  *render.Renderer
	binder    *media.Binder
	logger    *slog.Logger
	maxUpload int64
	sections  []adminSection
	events    EventLog
	jobs      JobRegistry
}

// EventLog lists persisted warnings and errors, newest first.
type EventLog interface {
	ListRecentLogEntries(ctx context.Context, limit int64) ([]model.LogEntry, error)
}

// dashboardEvents is how many log entries the dashboard shows.
const dashboardEvents = 10

// NewAdminHandler creates a new AdminHandler. maxUpload is the per-file
// size limit in bytes; zero uses media.DefaultMaxSize.
func NewAdminHandler(renderer *render.Renderer, binder *media.Binder, logger *slog.Logger, maxUpload int64) *AdminHandler {
	if maxUpload <= 0 {
		maxUpload = media.DefaultMaxSize
	}
	return &AdminHandler{
		renderer:  renderer,
		binder:    binder,
		logger:    logger,
		maxUpload: maxUpload,
	}
}

// SetEventLog shows recent log entries on the dashboard.
func (h *AdminHandler) SetEventLog(events EventLog) {
	h.events = events
}

// Register adds sections to the handler.
func (h *AdminHandler) Register(sections ...adminSection) {
	h.sections = append(h.sections, sections...)
}

// Routes mounts the dashboard and every registered section on r.
// upload wraps the routes that accept files.
func (h *AdminHandler) Routes(r chi.Router, upload ...func(http.Handler) http.Handler) {
	r.Get(RouteRoot, h.Dashboard)
	r.Post(RouteJobRun, h.RunJob)
	for _, s := range h.sections {
		r.Route(s.Path(), func(r chi.Router) {
			s.mount(r, h, upload)
		})
	}
}

// DashboardLink is one entry of the dashboard.
type DashboardLink struct {
	Title string
	URL   string
}

// DashboardGroup is a titled list of dashboard entries.
type DashboardGroup struct {
	Title string
	Links []DashboardLink
}

// DashboardData is the admin landing page.
type DashboardData struct {
	Groups []DashboardGroup
	Events []model.LogEntry
	Jobs   []scheduler.JobInfo
}

// Dashboard handles GET /admin.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := DashboardData{Groups: h.dashboardGroups()}
	if h.events != nil {
		events, err := h.events.ListRecentLogEntries(r.Context(), dashboardEvents)
		if err != nil {
			h.logger.Error("failed to list event log", "error", err)
		}
		data.Events = events
	}
	if h.jobs != nil {
		data.Jobs = h.jobs.List()
	}
	renderPage(w, r, h.renderer, "admin/dashboard", render.TemplateData{
		Title: "Dashboard",
		Data:  data,
	})
}

func (h *AdminHandler) dashboardGroups() []DashboardGroup {
	var groups []DashboardGroup
	index := make(map[string]int)
	for _, s := range h.sections {
		i, ok := index[s.Group()]
		if !ok {
			i = len(groups)
			index[s.Group()] = i
			groups = append(groups, DashboardGroup{Title: s.Group()})
		}
		groups[i].Links = append(groups[i].Links, DashboardLink{Title: s.Title(), URL: RouteAdmin + s.Path()})
	}
	return groups
}

// parseUpload limits and parses a multipart or urlencoded body.
func (h *AdminHandler) parseUpload(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload*maxFilesPerRequest+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return r.ParseForm()
		}
		return model.NewValidationError("form", "could not be read: "+err.Error())
	}
	return nil
}

// policy applies the configured size limit to p.
func (h *AdminHandler) policy(p media.Policy) media.Policy {
	if p.MaxSize <= 0 {
		p.MaxSize = h.maxUpload
	}
	return p
}

// discard deletes freshly uploaded objects after a failed write.
func (h *AdminHandler) discard(ctx context.Context, refs []model.MediaRef) {
	ctx = context.WithoutCancel(ctx)
	for _, ref := range refs {
		if err := h.binder.DeleteObject(ctx, ref); err != nil {
			h.logger.Warn("removing orphaned upload failed", "category", "media", "key", ref.Key, "error", err)
		}
	}
}

// cleanupMultipart removes the temporary files of a parsed body.
func cleanupMultipart(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/mvs-cms/internal/collection"
	"github.com/olegiv/mvs-cms/internal/model"
	"github.com/olegiv/mvs-cms/internal/render"
)

// SingletonPage is the data of a single-row edit form.
type SingletonPage struct {
	Title     string
	Action    string
	Fields    []Field
	Exists    bool
	UpdatedAt string
	Preview   string
}

// singletonAdmin edits a single-row table. Files left empty on submit
// keep the currently stored object.
type singletonAdmin[T any, P interface {
	*T
	model.Row
}] struct {
	slug   string
	title  string
	group  string
	path   string
	store  *collection.Singleton[T, P]
	slots  []mediaSlot[T]
	fields func(current T) []Field
	decode func(form url.Values, current T) (T, error)
	// preview returns an embeddable URL for the stored row, if any.
	preview func(current T) string
	// afterSave runs once the row is written.
	afterSave func(r *http.Request)
}

func (s *singletonAdmin[T, P]) Slug() string  { return s.slug }
func (s *singletonAdmin[T, P]) Title() string { return s.title }
func (s *singletonAdmin[T, P]) Group() string { return s.group }
func (s *singletonAdmin[T, P]) Path() string  { return s.path }

func (s *singletonAdmin[T, P]) url() string { return RouteAdmin + s.path }

func (s *singletonAdmin[T, P]) mount(r chi.Router, h *AdminHandler, upload []func(http.Handler) http.Handler) {
	r.Get(RouteRoot, func(w http.ResponseWriter, r *http.Request) { s.form(w, r, h) })
	r.With(upload...).Post(RouteRoot, func(w http.ResponseWriter, r *http.Request) { s.save(w, r, h) })
}

// form handles GET on the singleton path.
func (s *singletonAdmin[T, P]) form(w http.ResponseWriter, r *http.Request, h *AdminHandler) {
	current, ok, err := s.store.Get(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load "+s.slug, "table", s.store.Table(), "error", err)
		return
	}

	fields := s.fields(current)
	for i := range fields {
		for _, slot := range s.slots {
			if fields[i].Name == slot.field {
				fields[i].Current = slot.get(&current).URL
				fields[i].Required = slot.required && !ok
			}
		}
	}

	page := SingletonPage{
		Title:  s.title,
		Action: s.url(),
		Fields: fields,
		Exists: ok,
	}
	if ok {
		page.UpdatedAt = P(&current).RowMeta().UpdatedAt.Format("Jan 2, 2006 3:04 PM")
		if s.preview != nil {
			page.Preview = s.preview(current)
		}
	}

	renderPage(w, r, h.renderer, "admin/singleton", render.TemplateData{Title: s.title, Data: page})
}

// save handles POST on the singleton path.
func (s *singletonAdmin[T, P]) save(w http.ResponseWriter, r *http.Request, h *AdminHandler) {
	defer cleanupMultipart(r)

	if err := s.upsert(w, r, h); err != nil {
		h.logger.Warn("save failed", "category", "content", "table", s.store.Table(), "error", err)
		flashError(w, r, h.renderer, s.url(), err.Error())
		return
	}

	if s.afterSave != nil {
		s.afterSave(r)
	}
	h.logger.Info("content saved", "category", "content", "table", s.store.Table())
	flashSuccess(w, r, h.renderer, s.url(), s.title+" saved")
}

func (s *singletonAdmin[T, P]) upsert(w http.ResponseWriter, r *http.Request, h *AdminHandler) error {
	if err := h.parseUpload(w, r); err != nil {
		return err
	}

	ctx := r.Context()
	current, exists, err := s.store.Get(ctx)
	if err != nil {
		return err
	}

	item, err := s.decode(r.PostForm, current)
	if err != nil {
		return err
	}
	if err := collection.Validate(P(&item)); err != nil {
		return err
	}

	for _, slot := range s.slots {
		files := formFiles(r, slot.field)
		if len(files) > 1 {
			return model.NewValidationError(slot.field, "accepts a single file")
		}
		if slot.required && len(files) == 0 && (!exists || slot.get(&current).IsZero()) {
			return model.NewValidationError(slot.field, "is required")
		}
	}

	var uploaded []model.MediaRef
	for _, slot := range s.slots {
		files := formFiles(r, slot.field)
		if len(files) == 0 {
			continue
		}
		ref, err := h.binder.Upload(ctx, files[0], h.policy(slot.policy))
		if err != nil {
			h.discard(ctx, uploaded)
			return err
		}
		uploaded = append(uploaded, ref)
		slot.set(&item, ref)
	}

	if _, err := s.store.Upsert(ctx, item); err != nil {
		h.discard(ctx, uploaded)
		return err
	}
	return nil
}

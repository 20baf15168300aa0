// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/mvs-cms/internal/collection"
	"github.com/olegiv/mvs-cms/internal/media"
	"github.com/olegiv/mvs-cms/internal/model"
	"github.com/olegiv/mvs-cms/internal/render"
)

// AdminRow is how one stored row is listed in the admin.
type AdminRow struct {
	ID        string
	Thumb     string
	Primary   string
	Secondary string
	Link      string
	Position  int64
}

// CollectionPage is the data of the admin list-and-form page.
type CollectionPage struct {
	Title   string
	Action  string
	Fields  []Field
	Rows    []AdminRow
	Ordered bool
}

// reorderRequest is the JSON body accepted by the reorder route.
type reorderRequest struct {
	Direction string `json:"direction"`
}

// collectionAdmin manages one collection table. When perFile is set the
// first media slot takes several files and each becomes its own row
// sharing the submitted text fields.
type collectionAdmin[T any, P interface {
	*T
	model.Row
}] struct {
	slug      string
	title     string
	group     string
	store     *collection.Store[T, P]
	fields    []Field
	slots     []mediaSlot[T]
	perFile   bool
	decode    func(form url.Values) (T, error)
	summarize func(item T) AdminRow
}

func (c *collectionAdmin[T, P]) Slug() string  { return c.slug }
func (c *collectionAdmin[T, P]) Title() string { return c.title }
func (c *collectionAdmin[T, P]) Group() string { return c.group }
func (c *collectionAdmin[T, P]) Path() string  { return "/" + c.slug }

func (c *collectionAdmin[T, P]) url() string { return RouteAdmin + c.Path() }

func (c *collectionAdmin[T, P]) mount(r chi.Router, h *AdminHandler, upload []func(http.Handler) http.Handler) {
	r.Get(RouteRoot, func(w http.ResponseWriter, r *http.Request) { c.list(w, r, h) })
	r.With(upload...).Post(RouteRoot, func(w http.ResponseWriter, r *http.Request) { c.create(w, r, h) })
	r.Post(RouteParamID+RouteSuffixDelete, func(w http.ResponseWriter, r *http.Request) { c.delete(w, r, h) })
	if c.store.Schema().Positioned {
		r.Post(RouteParamID+RouteSuffixReorder, func(w http.ResponseWriter, r *http.Request) { c.reorder(w, r, h) })
	}
}

// list handles GET /admin/{slug}.
func (c *collectionAdmin[T, P]) list(w http.ResponseWriter, r *http.Request, h *AdminHandler) {
	items, err := c.store.List(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list "+c.slug, "table", c.store.Table(), "error", err)
		return
	}

	rows := make([]AdminRow, 0, len(items))
	for i := range items {
		row := c.summarize(items[i])
		m := P(&items[i]).RowMeta()
		row.ID = m.ID
		row.Position = m.Position
		rows = append(rows, row)
	}

	renderPage(w, r, h.renderer, "admin/collection", render.TemplateData{
		Title: c.title,
		Data: CollectionPage{
			Title:   c.title,
			Action:  c.url(),
			Fields:  c.fields,
			Rows:    rows,
			Ordered: c.store.Schema().Positioned,
		},
	})
}

// create handles POST /admin/{slug}. Input is validated before any file
// is stored, and stored files are removed again if the insert fails.
func (c *collectionAdmin[T, P]) create(w http.ResponseWriter, r *http.Request, h *AdminHandler) {
	defer cleanupMultipart(r)

	created, err := c.insert(w, r, h)
	if err != nil {
		h.logger.Warn("create failed", "category", "content", "table", c.store.Table(), "error", err)
		flashError(w, r, h.renderer, c.url(), err.Error())
		return
	}

	h.logger.Info("content created", "category", "content", "table", c.store.Table(), "count", created)
	msg := c.title + ": item added"
	if created > 1 {
		msg = c.title + ": " + strconv.Itoa(created) + " items added"
	}
	flashSuccess(w, r, h.renderer, c.url(), msg)
}

func (c *collectionAdmin[T, P]) insert(w http.ResponseWriter, r *http.Request, h *AdminHandler) (int, error) {
	if err := h.parseUpload(w, r); err != nil {
		return 0, err
	}

	item, err := c.decode(r.PostForm)
	if err != nil {
		return 0, err
	}
	if err := collection.Validate(P(&item)); err != nil {
		return 0, err
	}

	ctx := r.Context()
	// Every required slot must have a file before anything is stored.
	// Each file of a per-file slot becomes a row, so that slot always needs one.
	sets := make([][]media.File, len(c.slots))
	for i, slot := range c.slots {
		perFile := c.perFile && i == 0
		sets[i] = formFiles(r, slot.field)
		if (slot.required || perFile) && len(sets[i]) == 0 {
			return 0, model.NewValidationError(slot.field, "is required")
		}
		if !perFile && len(sets[i]) > 1 {
			return 0, model.NewValidationError(slot.field, "accepts a single file")
		}
	}

	var uploaded []model.MediaRef
	var items []T

	if c.perFile && len(c.slots) > 0 {
		slot := c.slots[0]
		refs, err := h.binder.UploadMany(ctx, sets[0], h.policy(slot.policy))
		if err != nil {
			return 0, err
		}
		uploaded = append(uploaded, refs...)
		for _, ref := range refs {
			row := item
			slot.set(&row, ref)
			items = append(items, row)
		}
	} else {
		for i, slot := range c.slots {
			if len(sets[i]) == 0 {
				continue
			}
			ref, err := h.binder.Upload(ctx, sets[i][0], h.policy(slot.policy))
			if err != nil {
				h.discard(ctx, uploaded)
				return 0, err
			}
			uploaded = append(uploaded, ref)
			slot.set(&item, ref)
		}
		items = []T{item}
	}

	if _, err := c.store.Insert(ctx, items...); err != nil {
		h.discard(ctx, uploaded)
		return 0, err
	}
	return len(items), nil
}

// delete handles POST /admin/{slug}/{id}/delete.
func (c *collectionAdmin[T, P]) delete(w http.ResponseWriter, r *http.Request, h *AdminHandler) {
	id := chi.URLParam(r, "id")
	if err := c.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Warn("delete failed", "category", "content", "table", c.store.Table(), "id", id, "error", err)
		flashError(w, r, h.renderer, c.url(), err.Error())
		return
	}

	h.logger.Info("content deleted", "category", "content", "table", c.store.Table(), "id", id)
	flashSuccess(w, r, h.renderer, c.url(), c.title+": item deleted")
}

// reorder handles POST /admin/{slug}/{id}/reorder. The direction comes
// from ?dir=, a form field, or a JSON body {"direction": "up"}; JSON
// requests get a JSON reply.
func (c *collectionAdmin[T, P]) reorder(w http.ResponseWriter, r *http.Request, h *AdminHandler) {
	id := chi.URLParam(r, "id")
	asJSON := isJSON(r)

	raw := r.URL.Query().Get("dir")
	if asJSON {
		var req reorderRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		raw = req.Direction
	} else if raw == "" {
		raw = r.PostFormValue("dir")
	}

	err := c.applyReorder(r, id, raw)
	if asJSON {
		if err != nil {
			writeJSONError(w, statusForError(err), err.Error())
			return
		}
		writeJSONSuccess(w, nil)
		return
	}

	switch {
	case err == nil:
		http.Redirect(w, r, c.url(), http.StatusSeeOther)
	case errors.Is(err, model.ErrNotFound):
		http.NotFound(w, r)
	default:
		h.logger.Warn("reorder failed", "category", "content", "table", c.store.Table(), "id", id, "error", err)
		flashError(w, r, h.renderer, c.url(), err.Error())
	}
}

func (c *collectionAdmin[T, P]) applyReorder(r *http.Request, id, raw string) error {
	dir, err := collection.ParseDirection(raw)
	if err != nil {
		return model.NewValidationError("direction", "must be up or down")
	}
	return c.store.Reorder(r.Context(), id, dir)
}

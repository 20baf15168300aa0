// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/mvs-cms/internal/scheduler"
)

// JobRegistry lists the background jobs and runs one on demand.
type JobRegistry interface {
	List() []scheduler.JobInfo
	TriggerNow(name string) error
}

// SetJobs shows the background jobs on the dashboard.
func (h *AdminHandler) SetJobs(jobs JobRegistry) {
	h.jobs = jobs
}

// RunJob handles POST /admin/jobs/{name}/run.
func (h *AdminHandler) RunJob(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		http.NotFound(w, r)
		return
	}

	name := chi.URLParam(r, "name")
	err := h.jobs.TriggerNow(name)
	switch {
	case errors.Is(err, scheduler.ErrJobNotFound):
		http.NotFound(w, r)
	case err != nil:
		h.logger.Error("job run failed", "category", "system", "job", name, "error", err)
		flashError(w, r, h.renderer, redirectAdmin, "Job "+name+" failed: "+err.Error())
	default:
		h.logger.Info("job run from admin", "category", "system", "job", name)
		flashSuccess(w, r, h.renderer, redirectAdmin, "Job "+name+" ran")
	}
}

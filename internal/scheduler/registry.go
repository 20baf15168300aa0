// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrJobNotFound is returned for a job name that was never added.
var ErrJobNotFound = errors.New("job not found")

// registeredJob holds metadata about a registered cron job.
type registeredJob struct {
	name        string
	description string
	schedule    string
	entryID     cron.EntryID
	triggerFunc func() error
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name        string
	Description string
	Schedule    string
	LastRun     time.Time
	NextRun     time.Time
}

// Registry tracks the jobs added to a scheduler.
type Registry struct {
	cron   *cron.Cron
	logger *slog.Logger
	mu     sync.RWMutex
	jobs   map[string]*registeredJob
}

func newRegistry(c *cron.Cron, logger *slog.Logger) *Registry {
	return &Registry{
		cron:   c,
		logger: logger,
		jobs:   make(map[string]*registeredJob),
	}
}

func (r *Registry) register(name, description, schedule string, entryID cron.EntryID, triggerFunc func() error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.jobs[name] = &registeredJob{
		name:        name,
		description: description,
		schedule:    schedule,
		entryID:     entryID,
		triggerFunc: triggerFunc,
	}
	r.logger.Debug("registered scheduled job", "name", name, "schedule", schedule)
}

// List returns all registered jobs sorted by name.
func (r *Registry) List() []JobInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]JobInfo, 0, len(r.jobs))
	for _, job := range r.jobs {
		entry := r.cron.Entry(job.entryID)
		result = append(result, JobInfo{
			Name:        job.name,
			Description: job.description,
			Schedule:    job.schedule,
			LastRun:     entry.Prev,
			NextRun:     entry.Next,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// TriggerNow runs a job immediately, outside its schedule.
func (r *Registry) TriggerNow(name string) error {
	r.mu.RLock()
	job, ok := r.jobs[name]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	r.logger.Info("manually triggering job", "name", name)
	return job.triggerFunc()
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the site's periodic background jobs on cron.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultJobTimeout bounds a single job run.
const DefaultJobTimeout = 30 * time.Second

// JobFunc is the body of a scheduled job.
type JobFunc func(ctx context.Context) error

// Scheduler owns the cron instance and the registry of jobs on it.
type Scheduler struct {
	cron     *cron.Cron
	registry *Registry
	logger   *slog.Logger
	timeout  time.Duration
}

// New creates a new scheduler instance.
func New(logger *slog.Logger) *Scheduler {
	c := cron.New()
	return &Scheduler{
		cron:     c,
		registry: newRegistry(c, logger),
		logger:   logger,
		timeout:  DefaultJobTimeout,
	}
}

// Registry returns the job registry.
func (s *Scheduler) Registry() *Registry {
	return s.registry
}

// Add schedules fn under name. Schedules use the standard five-field cron
// syntax or descriptors such as "@every 1m".
func (s *Scheduler) Add(name, description, schedule string, fn JobFunc) error {
	run := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		return fn(ctx)
	}
	jobFunc := func() {
		if err := run(); err != nil {
			s.logger.Error("scheduled job failed", "job", name, "error", err)
		}
	}

	entryID, err := s.cron.AddFunc(schedule, jobFunc)
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", name, err)
	}
	s.registry.register(name, description, schedule, entryID, run)
	return nil
}

// Start begins running the scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

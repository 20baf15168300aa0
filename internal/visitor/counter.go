// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package visitor keeps the site-wide visitor count shown in the footer.
//
// A visit counts once per visitor per debounce window. On top of real
// visits a periodic tick adds one synthetic visit, so the number keeps
// moving on a quiet site.
package visitor

import (
	"context"
	"fmt"
	"time"
)

// Defaults
const (
	DefaultBase     int64 = 100982
	DefaultDebounce       = 30 * time.Minute
	CounterName           = "visitors"
)

// Store persists the number of visits counted so far, excluding the base.
type Store interface {
	// Add increments the stored count and returns the new value.
	Add(ctx context.Context, delta int64) (int64, error)
	// Load returns the stored count; zero when nothing has been counted.
	Load(ctx context.Context) (int64, error)
}

// Counter decides which visits count and reports the displayed total.
type Counter struct {
	store    Store
	now      func() time.Time
	debounce time.Duration
	base     int64
}

// Option configures a Counter.
type Option func(*Counter)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Counter) { c.now = now }
}

// WithBase sets the number the displayed count starts from.
func WithBase(base int64) Option {
	return func(c *Counter) { c.base = base }
}

// WithDebounce sets how long a repeat visit is ignored.
func WithDebounce(d time.Duration) Option {
	return func(c *Counter) { c.debounce = d }
}

// NewCounter creates a counter on top of store.
func NewCounter(store Store, opts ...Option) *Counter {
	c := &Counter{
		store:    store,
		now:      time.Now,
		debounce: DefaultDebounce,
		base:     DefaultBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Visit records a page view by a visitor last counted at lastVisit (zero
// for a first visit). It returns the displayed count and the time to
// remember as the visitor's last counted visit.
func (c *Counter) Visit(ctx context.Context, lastVisit time.Time) (int64, time.Time, error) {
	now := c.now()
	if !lastVisit.IsZero() && now.Sub(lastVisit) <= c.debounce {
		count, err := c.Current(ctx)
		return count, lastVisit, err
	}

	n, err := c.store.Add(ctx, 1)
	if err != nil {
		return 0, lastVisit, fmt.Errorf("counting visit: %w", err)
	}
	return c.base + n, now, nil
}

// Tick adds one synthetic visit.
func (c *Counter) Tick(ctx context.Context) (int64, error) {
	n, err := c.store.Add(ctx, 1)
	if err != nil {
		return 0, fmt.Errorf("ticking visitor counter: %w", err)
	}
	return c.base + n, nil
}

// Current returns the displayed count without changing it.
func (c *Counter) Current(ctx context.Context) (int64, error) {
	n, err := c.store.Load(ctx)
	if err != nil {
		return c.base, fmt.Errorf("loading visitor count: %w", err)
	}
	return c.base + n, nil
}

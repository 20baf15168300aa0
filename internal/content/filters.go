// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"sort"
	"time"

	"github.com/olegiv/mvs-cms/internal/model"
)

// FilterByYear keeps the items of the given year, preserving input order.
// A zero year keeps everything.
func FilterByYear[T any](items []T, year int, yearOf func(T) int) []T {
	if year == 0 {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if yearOf(it) == year {
			out = append(out, it)
		}
	}
	return out
}

// FilterByLanguage keeps the newsletters in lang, preserving input order.
func FilterByLanguage(items []model.Newsletter, lang model.Language) []model.Newsletter {
	out := make([]model.Newsletter, 0, len(items))
	for _, it := range items {
		if it.Language == lang {
			out = append(out, it)
		}
	}
	return out
}

// Years returns the distinct years of items, newest first.
func Years[T any](items []T, yearOf func(T) int) []int {
	seen := make(map[int]bool)
	var years []int
	for _, it := range items {
		y := yearOf(it)
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// NewsletterYear and MagazineYear are the year accessors used with
// FilterByYear and Years.
func NewsletterYear(n model.Newsletter) int { return n.Year }
func MagazineYear(m model.Magazine) int     { return m.Year }

// Upcoming returns up to n events dated today or later, soonest first.
// A negative n returns them all.
func Upcoming(events []model.Event, today time.Time, n int) []model.Event {
	upcoming, _ := SplitEvents(events, today)
	if n >= 0 && len(upcoming) > n {
		upcoming = upcoming[:n]
	}
	return upcoming
}

// SplitEvents separates events into upcoming (date >= today, ascending)
// and past (most recent first). Events with unparseable dates are dropped.
func SplitEvents(events []model.Event, today time.Time) (upcoming, past []model.Event) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	for _, e := range events {
		d := e.Day()
		if d.IsZero() {
			continue
		}
		if d.Before(day) {
			past = append(past, e)
		} else {
			upcoming = append(upcoming, e)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].Date < upcoming[j].Date })
	sort.SliceStable(past, func(i, j int) bool { return past[i].Date > past[j].Date })
	return upcoming, past
}

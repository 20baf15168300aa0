// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package visitor

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/mileusna/useragent"
)

// SessionKeyLastVisit holds the unix time of the visitor's last counted visit.
const SessionKeyLastVisit = "visitor_last_visit"

type contextKey struct{}

// FromContext returns the displayed count stored by Track, or zero.
func FromContext(ctx context.Context) int64 {
	n, _ := ctx.Value(contextKey{}).(int64)
	return n
}

// WithCount stores count in ctx.
func WithCount(ctx context.Context, count int64) context.Context {
	return context.WithValue(ctx, contextKey{}, count)
}

// IsBot reports whether the user agent belongs to a crawler.
func IsBot(userAgent string) bool {
	if userAgent == "" {
		return true
	}
	return useragent.Parse(userAgent).Bot
}

// Track counts GET page views and puts the displayed count in the request
// context. It must run inside the session's LoadAndSave. Bots see the
// count but are never counted; counter failures are logged and the page
// is served anyway.
func Track(counter *Counter, sessions *scs.SessionManager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var (
				count int64
				err   error
			)
			if r.Method != http.MethodGet || IsBot(r.UserAgent()) {
				count, err = counter.Current(ctx)
			} else {
				var last time.Time
				if ts := sessions.GetInt64(ctx, SessionKeyLastVisit); ts > 0 {
					last = time.Unix(ts, 0)
				}

				var counted time.Time
				count, counted, err = counter.Visit(ctx, last)
				if err == nil && !counted.Equal(last) {
					sessions.Put(ctx, SessionKeyLastVisit, counted.Unix())
				}
			}
			if err != nil {
				logger.Warn("visitor counter unavailable", "error", err)
			}

			next.ServeHTTP(w, r.WithContext(WithCount(ctx, count)))
		})
	}
}

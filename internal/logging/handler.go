// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that persists warnings and errors
// to the event_log table, so failures seen by visitors leave a trace an
// admin can read.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/mvs-cms/internal/middleware"
	"github.com/olegiv/mvs-cms/internal/model"
	"github.com/olegiv/mvs-cms/internal/store"
)

// writeTimeout bounds a single event_log insert.
const writeTimeout = 2 * time.Second

// EventLogHandler is a slog.Handler that wraps another handler and also writes
// records at or above its level to the event_log table.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level // Minimum level to persist (default: WARN)
	attrs   []slog.Attr
	group   string
}

// NewEventLogHandler creates a new EventLogHandler that wraps the given handler.
// Logs at WARN level and above will be written to both the wrapped handler and the event log.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates a new EventLogHandler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level || h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	if h.inner.Enabled(ctx, r.Level) {
		err = h.inner.Handle(ctx, r)
	}
	if r.Level >= h.level {
		h.persist(ctx, r)
	}
	return err
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	c.inner = h.inner.WithAttrs(attrs)
	for _, a := range attrs {
		c.attrs = append(c.attrs, h.qualify(a))
	}
	return c
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := h.clone()
	c.inner = h.inner.WithGroup(name)
	if c.group != "" {
		c.group += "." + name
	} else {
		c.group = name
	}
	return c
}

func (h *EventLogHandler) clone() *EventLogHandler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)
	return &c
}

func (h *EventLogHandler) qualify(a slog.Attr) slog.Attr {
	if h.group != "" {
		a.Key = h.group + "." + a.Key
	}
	return a
}

// persist writes the record. The insert runs detached from the request
// context so a cancelled request still leaves its log entry.
func (h *EventLogHandler) persist(ctx context.Context, r slog.Record) {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.qualify(a))
		return true
	})

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	createdAt := r.Time
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_ = h.queries.CreateLogEntry(writeCtx, store.CreateLogEntryParams{
		Level:     levelName(r.Level),
		Category:  category(r.Message, attrs),
		Message:   r.Message,
		Metadata:  metadata(attrs, middleware.GetRequestPath(ctx)),
		CreatedAt: createdAt.UTC(),
	})
}

// levelName converts a slog.Level to an event log level.
func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.LogLevelError
	case level >= slog.LevelWarn:
		return model.LogLevelWarning
	default:
		return model.LogLevelInfo
	}
}

// category uses an explicit "category" attribute, then infers one from
// the attributes and message.
func category(msg string, attrs []slog.Attr) string {
	for _, a := range attrs {
		if a.Key == "category" {
			return a.Value.String()
		}
	}
	for _, a := range attrs {
		if a.Key == "table" {
			return model.LogCategoryContent
		}
	}

	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "login") || strings.Contains(msg, "session") ||
		strings.Contains(msg, "csrf") || strings.Contains(msg, "account"):
		return model.LogCategoryAuth
	case strings.Contains(msg, "upload") || strings.Contains(msg, "object") ||
		strings.Contains(msg, "thumbnail") || strings.Contains(msg, "storage"):
		return model.LogCategoryMedia
	case strings.Contains(msg, "visitor"):
		return model.LogCategoryVisitor
	case strings.Contains(msg, "fetch") || strings.Contains(msg, "content"):
		return model.LogCategoryContent
	default:
		return model.LogCategorySystem
	}
}

// metadata encodes the attributes, minus the category, as a JSON object.
func metadata(attrs []slog.Attr, path string) string {
	m := make(map[string]string, len(attrs)+1)
	for _, a := range attrs {
		if a.Key == "category" {
			continue
		}
		m[a.Key] = a.Value.Resolve().String()
	}
	if path != "" {
		m["path"] = path
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

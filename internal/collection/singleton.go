// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package collection

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/olegiv/mvs-cms/internal/model"
)

// Singleton reads and writes a table holding at most one row, keyed by
// model.SingletonID.
type Singleton[T any, P interface {
	*T
	model.Row
}] struct {
	db      *sql.DB
	table   string
	columns []string
	deps    Deps
}

// NewSingleton creates a store for a single-row table.
func NewSingleton[T any, P interface {
	*T
	model.Row
}](db *sql.DB, table string, deps Deps) *Singleton[T, P] {
	var zero T
	return &Singleton[T, P]{
		db:      db,
		table:   table,
		columns: P(&zero).Columns(),
		deps:    deps.withDefaults(),
	}
}

// Table returns the table name.
func (s *Singleton[T, P]) Table() string {
	return s.table
}

// Get returns the row and whether it exists.
func (s *Singleton[T, P]) Get(ctx context.Context) (T, bool, error) {
	var item T
	p := P(&item)
	m := p.RowMeta()
	targets := append([]any{&m.ID, &m.UpdatedAt}, p.Fields()...)

	query := "SELECT id, updated_at, " + strings.Join(s.columns, ", ") + " FROM " + s.table + " WHERE id = ?"
	err := s.db.QueryRowContext(ctx, query, model.SingletonID).Scan(targets...)
	if errors.Is(err, sql.ErrNoRows) {
		return item, false, nil
	}
	if err != nil {
		return item, false, &model.FetchError{Table: s.table, Err: err}
	}
	return item, true, nil
}

// Upsert validates and writes the row. Objects the previous row owned
// that the new row no longer references are deleted after the write.
func (s *Singleton[T, P]) Upsert(ctx context.Context, item T) (T, error) {
	if err := Validate(&item); err != nil {
		return item, err
	}

	prev, hadPrev, err := s.Get(ctx)
	if err != nil {
		return item, err
	}

	p := P(&item)
	m := p.RowMeta()
	m.ID = model.SingletonID
	m.UpdatedAt = s.deps.Now().UTC()

	updates := make([]string, 0, len(s.columns)+1)
	updates = append(updates, "updated_at = excluded.updated_at")
	for _, c := range s.columns {
		updates = append(updates, c+" = excluded."+c)
	}
	query := "INSERT INTO " + s.table + " (id, updated_at, " + strings.Join(s.columns, ", ") + ")" +
		" VALUES (?, ?, " + placeholders(len(s.columns)) + ")" +
		" ON CONFLICT(id) DO UPDATE SET " + strings.Join(updates, ", ")

	args := append([]any{m.ID, m.UpdatedAt}, argValues(p.Fields())...)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return item, &model.WriteError{Table: s.table, Op: "upsert", Err: err}
	}

	if hadPrev && s.deps.Media != nil {
		for _, ref := range staleRefs(any(P(&prev)), any(p)) {
			if err := s.deps.Media.DeleteObject(ctx, ref); err != nil {
				s.deps.Logger.Warn("failed to delete replaced object",
					"table", s.table, "key", ref.Key, "error", err)
			}
		}
	}
	return item, nil
}

// staleRefs returns refs of prev that next no longer points at.
func staleRefs(prev, next any) []model.MediaRef {
	po, ok := prev.(model.MediaOwner)
	if !ok {
		return nil
	}
	keep := make(map[string]bool)
	if no, ok := next.(model.MediaOwner); ok {
		for _, r := range no.MediaRefs() {
			keep[r.Key] = true
		}
	}
	var stale []model.MediaRef
	for _, r := range po.MediaRefs() {
		if !keep[r.Key] {
			stale = append(stale, r)
		}
	}
	return stale
}

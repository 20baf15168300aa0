// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package collection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/mvs-cms/internal/model"
)

// MediaDeleter removes stored objects by key.
type MediaDeleter interface {
	DeleteObject(ctx context.Context, ref model.MediaRef) error
}

// Deps are the collaborators shared by all stores.
type Deps struct {
	Media  MediaDeleter
	Logger *slog.Logger
	// Now is the clock used for created_at and updated_at. Defaults to time.Now.
	Now func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// Store reads and writes one collection table. P is the pointer type of
// the entity, which carries the column mapping.
type Store[T any, P interface {
	*T
	model.Row
}] struct {
	db      *sql.DB
	schema  Schema
	columns []string
	deps    Deps
}

// New creates a store for the table described by schema.
func New[T any, P interface {
	*T
	model.Row
}](db *sql.DB, schema Schema, deps Deps) *Store[T, P] {
	var zero T
	return &Store[T, P]{
		db:      db,
		schema:  schema,
		columns: P(&zero).Columns(),
		deps:    deps.withDefaults(),
	}
}

// Schema returns the table description.
func (s *Store[T, P]) Schema() Schema {
	return s.schema
}

// Table returns the table name.
func (s *Store[T, P]) Table() string {
	return s.schema.Table
}

func (s *Store[T, P]) metaColumns() []string {
	cols := []string{"id", "created_at"}
	if s.schema.Positioned {
		cols = append(cols, PositionColumn)
	}
	return cols
}

func (s *Store[T, P]) selectSQL() string {
	cols := append(s.metaColumns(), s.columns...)
	return "SELECT " + strings.Join(cols, ", ") + " FROM " + s.schema.Table
}

func (s *Store[T, P]) scanTargets(p P) []any {
	m := p.RowMeta()
	targets := []any{&m.ID, &m.CreatedAt}
	if s.schema.Positioned {
		targets = append(targets, &m.Position)
	}
	return append(targets, p.Fields()...)
}

// List returns every row in the schema's order, or in the given order.
func (s *Store[T, P]) List(ctx context.Context, order ...Order) ([]T, error) {
	if len(order) == 0 {
		order = s.schema.Order
	}

	rows, err := s.db.QueryContext(ctx, s.selectSQL()+orderClause(order))
	if err != nil {
		return nil, &model.FetchError{Table: s.schema.Table, Err: err}
	}
	defer func() { _ = rows.Close() }()

	var items []T
	for rows.Next() {
		var item T
		if err := rows.Scan(s.scanTargets(P(&item))...); err != nil {
			return nil, &model.FetchError{Table: s.schema.Table, Err: err}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.FetchError{Table: s.schema.Table, Err: err}
	}
	return items, nil
}

// Get returns a single row. A missing row is reported as model.ErrNotFound.
func (s *Store[T, P]) Get(ctx context.Context, id string) (T, error) {
	var item T
	err := s.db.QueryRowContext(ctx, s.selectSQL()+" WHERE id = ?", id).Scan(s.scanTargets(P(&item))...)
	if errors.Is(err, sql.ErrNoRows) {
		err = model.ErrNotFound
	}
	if err != nil {
		return item, &model.FetchError{Table: s.schema.Table, Err: err}
	}
	return item, nil
}

// Insert validates every row and then writes them all in one transaction.
// Ids and creation times are assigned here; positioned tables append each
// row after the current maximum position.
func (s *Store[T, P]) Insert(ctx context.Context, items ...T) ([]T, error) {
	for i := range items {
		if err := Validate(&items[i]); err != nil {
			return nil, err
		}
	}
	if len(items) == 0 {
		return nil, nil
	}

	cols := append(s.metaColumns(), s.columns...)
	values := "?, ?"
	if s.schema.Positioned {
		values += fmt.Sprintf(", (SELECT COALESCE(MAX(%s), 0) + 1 FROM %s)", PositionColumn, s.schema.Table)
	}
	values += ", " + placeholders(len(s.columns))

	query := "INSERT INTO " + s.schema.Table + " (" + strings.Join(cols, ", ") + ") VALUES (" + values + ")"
	if s.schema.Positioned {
		query += " RETURNING " + PositionColumn
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, s.writeErr("insert", err)
	}
	defer func() { _ = tx.Rollback() }()

	out := make([]T, len(items))
	copy(out, items)
	for i := range out {
		p := P(&out[i])
		m := p.RowMeta()
		m.ID = uuid.New().String()
		m.CreatedAt = s.deps.Now().UTC()

		args := append([]any{m.ID, m.CreatedAt}, argValues(p.Fields())...)
		if s.schema.Positioned {
			err = tx.QueryRowContext(ctx, query, args...).Scan(&m.Position)
		} else {
			_, err = tx.ExecContext(ctx, query, args...)
		}
		if err != nil {
			return nil, s.writeErr("insert", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, s.writeErr("insert", err)
	}
	return out, nil
}

// Delete loads the row, removes its stored objects and then the row.
func (s *Store[T, P]) Delete(ctx context.Context, id string) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	var refs []model.MediaRef
	if owner, ok := any(P(&item)).(model.MediaOwner); ok {
		refs = owner.MediaRefs()
	}
	return s.Remove(ctx, id, refs)
}

// Remove deletes the given objects and then the row. Object deletion is
// best effort: failures are logged and the row is removed regardless.
// An unknown id fails with model.ErrNotFound before any object is touched.
func (s *Store[T, P]) Remove(ctx context.Context, id string, refs []model.MediaRef) error {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM "+s.schema.Table+" WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return s.writeErr("delete", model.ErrNotFound)
	}
	if err != nil {
		return s.writeErr("delete", err)
	}

	if s.deps.Media != nil {
		for _, ref := range refs {
			if err := s.deps.Media.DeleteObject(ctx, ref); err != nil {
				s.deps.Logger.Warn("failed to delete stored object",
					"table", s.schema.Table, "id", id, "key", ref.Key, "error", err)
			}
		}
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM "+s.schema.Table+" WHERE id = ?", id)
	if err != nil {
		return s.writeErr("delete", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return s.writeErr("delete", model.ErrNotFound)
	}
	return nil
}

// Reorder swaps the row with its neighbour in the given direction.
// Moving the first row up or the last row down does nothing.
func (s *Store[T, P]) Reorder(ctx context.Context, id string, dir Direction) error {
	if !s.schema.Positioned {
		return s.writeErr("reorder", ErrNotOrdered)
	}
	if dir != Up && dir != Down {
		return model.NewValidationError("direction", "must be up or down")
	}

	type slot struct {
		id  string
		pos int64
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, "+PositionColumn+" FROM "+s.schema.Table+
			" ORDER BY "+PositionColumn+" ASC, id ASC")
	if err != nil {
		return &model.FetchError{Table: s.schema.Table, Err: err}
	}
	var slots []slot
	for rows.Next() {
		var sl slot
		if err := rows.Scan(&sl.id, &sl.pos); err != nil {
			_ = rows.Close()
			return &model.FetchError{Table: s.schema.Table, Err: err}
		}
		slots = append(slots, sl)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return &model.FetchError{Table: s.schema.Table, Err: err}
	}

	idx := -1
	for i, sl := range slots {
		if sl.id == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s.writeErr("reorder", model.ErrNotFound)
	}

	other := idx - 1
	if dir == Down {
		other = idx + 1
	}
	if other < 0 || other >= len(slots) {
		return nil
	}

	a, b := slots[idx], slots[other]
	query := fmt.Sprintf(
		"UPDATE %[1]s SET %[2]s = CASE id WHEN ? THEN ? WHEN ? THEN ? ELSE %[2]s END WHERE id IN (?, ?)",
		s.schema.Table, PositionColumn)
	if _, err := s.db.ExecContext(ctx, query, a.id, b.pos, b.id, a.pos, a.id, b.id); err != nil {
		return s.writeErr("reorder", err)
	}
	return nil
}

// argValues dereferences field pointers into plain driver values.
func argValues(fields []any) []any {
	out := make([]any, len(fields))
	for i, f := range fields {
		v := reflect.ValueOf(f)
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				continue
			}
			v = v.Elem()
		}
		switch v.Kind() {
		case reflect.String:
			out[i] = v.String()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			out[i] = v.Int()
		case reflect.Bool:
			out[i] = v.Bool()
		default:
			out[i] = v.Interface()
		}
	}
	return out
}

func (s *Store[T, P]) writeErr(op string, err error) error {
	return &model.WriteError{Table: s.schema.Table, Op: op, Err: err}
}

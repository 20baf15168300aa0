// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// SingletonID is the fixed id of the only row in a singleton table.
const SingletonID = "default"

// Meta holds the columns every managed table shares.
// Position is only persisted for manually ordered tables and
// UpdatedAt only for singleton tables.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Position  int64     `json:"order_position"`
}

// RowMeta gives generic code access to the shared columns.
func (m *Meta) RowMeta() *Meta { return m }

// Row is implemented by pointers to entity structs.
// Fields returns pointers to the data fields in the same order as Columns,
// so the same slice serves as scan targets and as insert arguments.
type Row interface {
	RowMeta() *Meta
	Columns() []string
	Fields() []any
}

// MediaOwner is implemented by rows that own stored objects.
type MediaOwner interface {
	MediaRefs() []MediaRef
}

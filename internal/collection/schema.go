// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package collection stores content rows in per-entity SQLite tables.
//
// A Store serves one table described by a Schema. Entity structs embed
// model.Meta and list their own data columns, so one generic store covers
// every collection, including the manually ordered ones.
package collection

import (
	"errors"
	"fmt"
	"strings"
)

// PositionColumn is the manual ordering column of ordered tables.
const PositionColumn = "order_position"

// ErrNotOrdered is returned by Reorder on tables without manual ordering.
var ErrNotOrdered = errors.New("collection is not manually ordered")

// Order is one ORDER BY term.
type Order struct {
	Column string
	Desc   bool
}

// Asc orders by column ascending.
func Asc(column string) Order { return Order{Column: column} }

// Desc orders by column descending.
func Desc(column string) Order { return Order{Column: column, Desc: true} }

func (o Order) sql() string {
	if o.Desc {
		return o.Column + " DESC"
	}
	return o.Column + " ASC"
}

// Schema describes a collection table.
type Schema struct {
	Table string
	// Order is the default listing order. The id is always appended as a
	// final tie-breaker so listings are stable.
	Order []Order
	// Positioned tables carry an order_position column that admins control.
	Positioned bool
}

// Direction moves a row within a positioned table.
type Direction string

// Directions
const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection accepts "up" or "down", case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Up:
		return Up, nil
	case Down:
		return Down, nil
	default:
		return "", fmt.Errorf("invalid direction %q", s)
	}
}

func orderClause(orders []Order) string {
	terms := make([]string, 0, len(orders)+1)
	for _, o := range orders {
		terms = append(terms, o.sql())
	}
	terms = append(terms, "id ASC")
	return " ORDER BY " + strings.Join(terms, ", ")
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

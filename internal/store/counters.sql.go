// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const getCounter = `SELECT value FROM site_counters WHERE name = ?`

// GetCounter returns the value of a named counter. A missing counter
// returns sql.ErrNoRows.
func (q *Queries) GetCounter(ctx context.Context, name string) (int64, error) {
	var value int64
	err := q.db.QueryRowContext(ctx, getCounter, name).Scan(&value)
	return value, err
}

const incrementCounter = `
INSERT INTO site_counters (name, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET value = value + excluded.value, updated_at = excluded.updated_at
RETURNING value
`

// IncrementCounterParams names the counter and the amount to add.
type IncrementCounterParams struct {
	Name      string
	Delta     int64
	UpdatedAt time.Time
}

// IncrementCounter adds Delta to the counter, creating it at Delta if absent,
// and returns the new value.
func (q *Queries) IncrementCounter(ctx context.Context, arg IncrementCounterParams) (int64, error) {
	var value int64
	err := q.db.QueryRowContext(ctx, incrementCounter, arg.Name, arg.Delta, arg.UpdatedAt).Scan(&value)
	return value, err
}

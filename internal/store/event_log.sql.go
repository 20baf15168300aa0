// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/olegiv/mvs-cms/internal/model"
)

const createLogEntry = `
INSERT INTO event_log (level, category, message, metadata, created_at)
VALUES (?, ?, ?, ?, ?)
`

// CreateLogEntryParams holds one persisted log record.
type CreateLogEntryParams struct {
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

func (q *Queries) CreateLogEntry(ctx context.Context, arg CreateLogEntryParams) error {
	_, err := q.db.ExecContext(ctx, createLogEntry,
		arg.Level,
		arg.Category,
		arg.Message,
		arg.Metadata,
		arg.CreatedAt,
	)
	return err
}

const listRecentLogEntries = `
SELECT id, level, category, message, metadata, created_at
FROM event_log ORDER BY created_at DESC, id DESC LIMIT ?
`

func (q *Queries) ListRecentLogEntries(ctx context.Context, limit int64) ([]model.LogEntry, error) {
	rows, err := q.db.QueryContext(ctx, listRecentLogEntries, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []model.LogEntry
	for rows.Next() {
		var e model.LogEntry
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/mvs-cms/internal/model"
)

const createUser = `
INSERT INTO users (email, password_hash, name, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id, email, password_hash, name, created_at, updated_at, last_login_at
`

// CreateUserParams holds the columns of a new user.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.Email,
		arg.PasswordHash,
		arg.Name,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanUser(row)
}

const getUserByEmail = `
SELECT id, email, password_hash, name, created_at, updated_at, last_login_at
FROM users WHERE email = ?
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByEmail, email))
}

const getUserByID = `
SELECT id, email, password_hash, name, created_at, updated_at, last_login_at
FROM users WHERE id = ?
`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const countUsers = `SELECT COUNT(*) FROM users`

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countUsers).Scan(&count)
	return count, err
}

const updateUserLastLogin = `UPDATE users SET last_login_at = ? WHERE id = ?`

// UpdateUserLastLogin records a successful login.
func (q *Queries) UpdateUserLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := q.db.ExecContext(ctx, updateUserLastLogin, sql.NullTime{Time: at, Valid: true}, id)
	return err
}

const updateUserPassword = `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`

// UpdateUserPassword replaces the user's password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, passwordHash string, at time.Time) error {
	_, err := q.db.ExecContext(ctx, updateUserPassword, passwordHash, at, id)
	return err
}

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.LastLoginAt,
	)
	return u, err
}

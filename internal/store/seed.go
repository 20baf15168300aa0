// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/mvs-cms/internal/auth"
)

// Default admin credentials, used only in development when none are configured.
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

// AdminSeed holds the bootstrap admin account.
type AdminSeed struct {
	Email    string
	Password string
	Name     string
	// AllowDefault permits the built-in development credentials when
	// Email or Password is empty.
	AllowDefault bool
}

// ErrNoAdminCredentials is returned when the database has no users and no
// bootstrap credentials were configured.
var ErrNoAdminCredentials = errors.New("no admin user exists and no admin credentials are configured")

// Seed creates the first admin account when the users table is empty.
func Seed(ctx context.Context, db *sql.DB, seed AdminSeed) error {
	queries := New(db)

	count, err := queries.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		slog.Debug("admin user already exists, skipping seed")
		return nil
	}

	if seed.Email == "" || seed.Password == "" {
		if !seed.AllowDefault {
			return ErrNoAdminCredentials
		}
		seed.Email = DefaultAdminEmail
		seed.Password = DefaultAdminPassword
		slog.Warn("seeding development admin with default credentials", "email", seed.Email)
	}
	if seed.Name == "" {
		seed.Name = DefaultAdminName
	}

	passwordHash, err := auth.HashPassword(seed.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        seed.Email,
		PasswordHash: passwordHash,
		Name:         seed.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created admin user", "id", user.ID, "email", user.Email)
	return nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/mvs-cms/internal/model"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
// The two cases are indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Users is the account storage used at login.
type Users interface {
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, id int64) (model.User, error)
	UpdateUserLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string, at time.Time) error
}

// Authenticator checks admin credentials.
type Authenticator struct {
	users  Users
	logger *slog.Logger
	now    func() time.Time
	// dummyHash is verified for unknown emails so both failure paths cost
	// one argon2 derivation.
	dummyHash string
}

// NewAuthenticator creates an authenticator over users.
func NewAuthenticator(users Users, logger *slog.Logger) (*Authenticator, error) {
	dummy, err := HashPassword("not-a-real-password")
	if err != nil {
		return nil, err
	}
	return &Authenticator{users: users, logger: logger, now: time.Now, dummyHash: dummy}, nil
}

// Authenticate returns the user for a valid email and password pair.
// Hashes with outdated parameters are upgraded in place.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return model.User{}, ErrInvalidCredentials
	}

	user, err := a.users.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		_, _ = VerifyArgon2(password, a.dummyHash)
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, fmt.Errorf("loading user: %w", err)
	}

	valid, err := CheckPassword(password, user.PasswordHash)
	if err != nil {
		a.logger.Error("stored password hash is unreadable", "user_id", user.ID, "error", err)
		return model.User{}, ErrInvalidCredentials
	}
	if !valid {
		return model.User{}, ErrInvalidCredentials
	}

	now := a.now()
	if NeedsRehash(user.PasswordHash) {
		if newHash, err := HashPassword(password); err == nil {
			if err := a.users.UpdateUserPassword(ctx, user.ID, newHash, now); err != nil {
				a.logger.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			} else {
				user.PasswordHash = newHash
				a.logger.Info("password re-hashed with updated parameters", "user_id", user.ID)
			}
		}
	}

	if err := a.users.UpdateUserLastLogin(ctx, user.ID, now); err != nil {
		a.logger.Error("failed to update last login time", "error", err, "user_id", user.ID)
	} else {
		user.LastLoginAt = sql.NullTime{Time: now, Valid: true}
	}

	return user, nil
}

// Lookup returns the user behind a session's user id. A deleted user
// yields sql.ErrNoRows.
func (a *Authenticator) Lookup(ctx context.Context, id int64) (model.User, error) {
	return a.users.GetUserByID(ctx, id)
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

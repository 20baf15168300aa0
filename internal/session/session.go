// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the scs session manager and the values the
// site keeps in it.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys
const (
	KeyUserID    = "user_id"
	KeyFlash     = "flash"
	KeyFlashType = "flash_type"
)

// Flash types
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Cookie names. The __Host- prefix requires Secure, so it is production only.
const (
	CookieName       = "mvs_session"
	SecureCookieName = "__Host-mvs_session"
)

// Lifetime is how long an admin session lasts.
const Lifetime = 24 * time.Hour

// New creates a new session manager configured with SQLite store.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)
	configure(sm, isDev)
	return sm
}

// NewMemory creates a session manager with the in-memory store.
func NewMemory(isDev bool) *scs.SessionManager {
	sm := scs.New()
	configure(sm, isDev)
	return sm
}

func configure(sm *scs.SessionManager, isDev bool) {
	sm.Lifetime = Lifetime
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Secure = !isDev
	if isDev {
		sm.Cookie.Name = CookieName
	} else {
		sm.Cookie.Name = SecureCookieName
	}
}

// Flash is a one-shot message shown on the next page.
type Flash struct {
	Message string
	Type    string
}

// PutFlash stores a message for the next page.
func PutFlash(sm *scs.SessionManager, ctx context.Context, message, flashType string) {
	sm.Put(ctx, KeyFlash, message)
	sm.Put(ctx, KeyFlashType, flashType)
}

// PopFlash removes and returns the pending message, if any.
func PopFlash(sm *scs.SessionManager, ctx context.Context) (Flash, bool) {
	msg := sm.PopString(ctx, KeyFlash)
	flashType := sm.PopString(ctx, KeyFlashType)
	if msg == "" {
		return Flash{}, false
	}
	if flashType == "" {
		flashType = FlashInfo
	}
	return Flash{Message: msg, Type: flashType}, true
}

// UserID returns the logged-in user's id, or zero.
func UserID(sm *scs.SessionManager, ctx context.Context) int64 {
	return sm.GetInt64(ctx, KeyUserID)
}

// Login renews the token and stores the user id.
func Login(sm *scs.SessionManager, ctx context.Context, userID int64) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, KeyUserID, userID)
	return nil
}

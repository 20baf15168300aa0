// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the admin auth gate,
// request protection, and request context handling.
package middleware

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/mvs-cms/internal/model"
	"github.com/olegiv/mvs-cms/internal/session"
)

// LoginPath is where unauthenticated admin requests are sent.
const LoginPath = "/admin/login"

// AuthState is the outcome of resolving a request's admin session.
type AuthState int

// Auth states. Every request starts in StateChecking until the session
// has been resolved.
const (
	StateChecking AuthState = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s AuthState) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "checking"
	}
}

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request data.
const (
	ContextKeyAuth        ContextKey = "auth"
	ContextKeyRequestPath ContextKey = "request_path"
)

// Auth is the resolved auth state stored in the request context.
type Auth struct {
	State AuthState
	User  *model.User
}

// Authenticated reports whether the request carries a live admin session.
func (a Auth) Authenticated() bool {
	return a.State == StateAuthenticated && a.User != nil
}

// UserLookup loads the user behind a session.
type UserLookup interface {
	Lookup(ctx context.Context, id int64) (model.User, error)
}

// ResolveAuth stores the request's Auth in the context without enforcing
// it. A session pointing at a deleted user is destroyed.
func ResolveAuth(sm *scs.SessionManager, users UserLookup, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			auth := &Auth{State: StateChecking}

			userID := session.UserID(sm, ctx)
			if userID == 0 {
				auth.State = StateUnauthenticated
			} else {
				user, err := users.Lookup(ctx, userID)
				switch {
				case err == nil:
					auth.State = StateAuthenticated
					auth.User = &user
				case errors.Is(err, sql.ErrNoRows):
					logger.Info("destroying session of missing user", "user_id", userID)
					if err := sm.Destroy(ctx); err != nil {
						logger.Error("session destroy error", "error", err)
					}
					auth.State = StateUnauthenticated
				default:
					logger.Error("failed to load session user", "user_id", userID, "error", err)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, ContextKeyAuth, auth)))
		})
	}
}

// RequireAuth redirects requests that are not authenticated to the login
// page. It must run after ResolveAuth.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetAuth(r.Context()).State != StateAuthenticated {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetAuth returns the request's auth state. Before ResolveAuth has run
// the state is StateChecking.
func GetAuth(ctx context.Context) Auth {
	if auth, ok := ctx.Value(ContextKeyAuth).(*Auth); ok {
		return *auth
	}
	return Auth{State: StateChecking}
}

// RequestPath creates middleware that stores the request path in the context.
// This is used by the logging handler to include the URL in persisted logs.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/mvs-cms/internal/auth"
	"github.com/olegiv/mvs-cms/internal/middleware"
	"github.com/olegiv/mvs-cms/internal/render"
	"github.com/olegiv/mvs-cms/internal/session"
)

// remainingAttemptsWarning is the threshold below which the login form
// tells the user how many attempts are left.
const remainingAttemptsWarning = 3

// AuthHandler handles authentication routes.
type AuthHandler struct {
	authenticator   *auth.Authenticator
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
	logger          *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. lp may be nil.
func NewAuthHandler(a *auth.Authenticator, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authenticator:   a,
		renderer:        renderer,
		sessionManager:  sm,
		loginProtection: lp,
		logger:          logger,
	}
}

// LoginForm renders the login page.
// Already-authenticated users go straight to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if userID := session.UserID(h.sessionManager, r.Context()); userID > 0 {
		if _, err := h.authenticator.Lookup(r.Context(), userID); err == nil {
			http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
			return
		}
	}

	renderPage(w, r, h.renderer, "auth/login", render.TemplateData{Title: "Admin Login"})
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, redirectLogin, "Invalid form data")
		return
	}

	email := auth.NormalizeEmail(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, "Email and password are required")
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			h.logger.Warn("login attempt on locked account", "category", "auth", "email", email)
			flashError(w, r, h.renderer, redirectLogin,
				fmt.Sprintf("Account temporarily locked. Try again in %s.", formatDuration(remaining)))
			return
		}
	}

	user, err := h.authenticator.Authenticate(r.Context(), email, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.logger.Warn("login failed", "category", "auth", "email", email)
		flashError(w, r, h.renderer, redirectLogin, h.failedLoginMessage(email))
		return
	}
	if err != nil {
		logAndInternalError(w, "database error during login", "error", err)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	if err := session.Login(h.sessionManager, r.Context(), user.ID); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	h.logger.Info("user logged in", "category", "auth", "user_id", user.ID, "email", user.Email)
	flashSuccess(w, r, h.renderer, redirectAdmin, "Welcome back, "+user.DisplayName())
}

// failedLoginMessage records the failure and picks the message to show.
func (h *AuthHandler) failedLoginMessage(email string) string {
	const invalid = "Invalid email or password"
	if h.loginProtection == nil {
		return invalid
	}

	if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
		return fmt.Sprintf("Too many failed attempts. Account locked for %s.", formatDuration(lockDuration))
	}
	if remaining := h.loginProtection.GetRemainingAttempts(email); remaining > 0 && remaining <= remainingAttemptsWarning {
		return fmt.Sprintf("%s. %d attempts remaining.", invalid, remaining)
	}
	return invalid
}

// Logout destroys the session and returns to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := session.UserID(h.sessionManager, r.Context())
	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		logAndInternalError(w, "failed to destroy session", "error", err)
		return
	}
	h.logger.Info("user logged out", "category", "auth", "user_id", userID)
	http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
}

// formatDuration renders a lockout duration in whole minutes or seconds.
func formatDuration(d time.Duration) string {
	if d >= time.Minute {
		minutes := int((d + time.Minute - 1) / time.Minute)
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	seconds := int((d + time.Second - 1) / time.Second)
	if seconds == 1 {
		return "1 second"
	}
	return fmt.Sprintf("%d seconds", seconds)
}

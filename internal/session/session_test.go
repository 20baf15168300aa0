// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/mvs-cms/internal/testutil"
)

func TestNew_DevMode(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	sm := New(db, true)

	assert.NotNil(t, sm.Store)
	assert.False(t, sm.Cookie.Secure)
	assert.Equal(t, CookieName, sm.Cookie.Name)
}

func TestNew_ProductionMode(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	sm := New(db, false)

	assert.True(t, sm.Cookie.Secure)
	assert.Equal(t, SecureCookieName, sm.Cookie.Name)
	assert.Equal(t, "/", sm.Cookie.Path)
}

func TestNew_SessionSettings(t *testing.T) {
	sm := NewMemory(true)

	assert.Equal(t, 24*time.Hour, sm.Lifetime)
	assert.True(t, sm.Cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, sm.Cookie.SameSite)
}

func TestFlashAndLogin(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	sm := New(db, true)

	var step int
	h := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		switch step {
		case 0:
			require.NoError(t, Login(sm, ctx, 42))
			PutFlash(sm, ctx, "Saved", FlashSuccess)
		case 1:
			assert.Equal(t, int64(42), UserID(sm, ctx))
			f, ok := PopFlash(sm, ctx)
			assert.True(t, ok)
			assert.Equal(t, Flash{Message: "Saved", Type: FlashSuccess}, f)
		case 2:
			_, ok := PopFlash(sm, ctx)
			assert.False(t, ok, "flash is shown once")
		}
	}))

	var cookie *http.Cookie
	for step = 0; step < 3; step++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		for _, c := range rec.Result().Cookies() {
			if c.Name == CookieName {
				cookie = c
			}
		}
		require.NotNil(t, cookie)
	}
}

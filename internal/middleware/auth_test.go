// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/mvs-cms/internal/model"
	"github.com/olegiv/mvs-cms/internal/session"
	"github.com/olegiv/mvs-cms/internal/testutil"
)

type fakeUsers struct {
	users map[int64]model.User
	err   error
}

func (f fakeUsers) Lookup(_ context.Context, id int64) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return model.User{}, sql.ErrNoRows
}

// gateFixture serves /login (stores user 1 or the id in ?id) and /admin
// behind the gate.
type gateFixture struct {
	sm      *scs.SessionManager
	handler http.Handler
	seen    Auth
}

func newGateFixture(t *testing.T, users UserLookup) *gateFixture {
	t.Helper()
	f := &gateFixture{sm: session.NewMemory(true)}

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		var id int64 = 1
		if r.URL.Query().Get("id") == "2" {
			id = 2
		}
		require.NoError(t, session.Login(f.sm, r.Context(), id))
	})
	resolve := ResolveAuth(f.sm, users, testutil.TestLoggerSilent())
	admin := resolve(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.seen = GetAuth(r.Context())
		w.WriteHeader(http.StatusOK)
	})))
	mux.Handle("/admin", admin)

	f.handler = f.sm.LoadAndSave(mux)
	return f
}

func (f *gateFixture) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestAuthGateUnauthenticatedRedirects(t *testing.T) {
	f := newGateFixture(t, fakeUsers{})

	rec := f.get("/admin", nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))
}

func TestAuthGateAuthenticated(t *testing.T) {
	f := newGateFixture(t, fakeUsers{users: map[int64]model.User{1: {ID: 1, Email: "a@example.com"}}})

	cookie := sessionCookie(t, f.get("/login", nil))
	rec := f.get("/admin", cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StateAuthenticated, f.seen.State)
	require.NotNil(t, f.seen.User)
	assert.Equal(t, "a@example.com", f.seen.User.Email)
}

func TestAuthGateStaleSessionDestroyed(t *testing.T) {
	f := newGateFixture(t, fakeUsers{users: map[int64]model.User{1: {ID: 1}}})

	cookie := sessionCookie(t, f.get("/login?id=2", nil))
	rec := f.get("/admin", cookie)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))

	// The destroyed session no longer carries a user id.
	token := cookie.Value
	_, found, err := f.sm.Store.Find(token)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAuthGateLookupError(t *testing.T) {
	f := newGateFixture(t, fakeUsers{err: errors.New("db down")})

	cookie := sessionCookie(t, f.get("/login", nil))
	rec := f.get("/admin", cookie)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetAuthDefaultsToChecking(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, StateChecking, GetAuth(req.Context()).State)
	assert.Nil(t, GetAuth(req.Context()).User)
	assert.Equal(t, "checking", StateChecking.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
	assert.Equal(t, "unauthenticated", StateUnauthenticated.String())
}

func TestRequestPath(t *testing.T) {
	var got string
	h := RequestPath(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestPath(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, "/events", got)
}

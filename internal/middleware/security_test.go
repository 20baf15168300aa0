// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name        string
		isDev       bool
		wantHSTS    bool
		wantCSP     bool
		wantFrame   bool
		wantNosniff bool
	}{
		{
			name:        "production mode enables all headers",
			isDev:       false,
			wantHSTS:    true,
			wantCSP:     true,
			wantFrame:   true,
			wantNosniff: true,
		},
		{
			name:        "development mode disables HSTS",
			isDev:       true,
			wantHSTS:    false,
			wantCSP:     true,
			wantFrame:   true,
			wantNosniff: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSecurityHeadersConfig(tt.isDev)
			handler := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			// Check HSTS header
			hsts := rec.Header().Get("Strict-Transport-Security")
			if tt.wantHSTS && hsts == "" {
				t.Error("expected HSTS header but got none")
			}
			if !tt.wantHSTS && hsts != "" {
				t.Errorf("expected no HSTS header but got: %s", hsts)
			}

			// Check CSP header
			csp := rec.Header().Get("Content-Security-Policy")
			if tt.wantCSP && csp == "" {
				t.Error("expected CSP header but got none")
			}
			if tt.wantCSP && !strings.Contains(csp, "default-src") {
				t.Error("CSP should contain default-src directive")
			}

			// Check X-Frame-Options header
			frame := rec.Header().Get("X-Frame-Options")
			if tt.wantFrame && frame != "SAMEORIGIN" {
				t.Errorf("expected X-Frame-Options: SAMEORIGIN, got: %s", frame)
			}

			// Check X-Content-Type-Options header
			nosniff := rec.Header().Get("X-Content-Type-Options")
			if tt.wantNosniff && nosniff != "nosniff" {
				t.Errorf("expected X-Content-Type-Options: nosniff, got: %s", nosniff)
			}
		})
	}
}

func TestSecurityHeadersExcludePaths(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	cfg.ExcludePaths = []string{"/uploads/"}

	handler := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		path        string
		wantHeaders bool
	}{
		{"/", true},
		{"/admin", true},
		{"/uploads/banners/home/a.jpg", false},
		{"/uploads/thumbs/a.jpg", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			csp := rec.Header().Get("Content-Security-Policy")
			if tt.wantHeaders && csp == "" {
				t.Errorf("expected CSP header for path %s", tt.path)
			}
			if !tt.wantHeaders && csp != "" {
				t.Errorf("expected no CSP header for path %s, got: %s", tt.path, csp)
			}
		})
	}
}

func TestSecurityHeadersHSTSOptions(t *testing.T) {
	cfg := SecurityHeadersConfig{
		IsDevelopment:         false,
		HSTSMaxAge:            63072000, // 2 years
		HSTSIncludeSubDomains: true,
		HSTSPreload:           true,
	}

	handler := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	hsts := rec.Header().Get("Strict-Transport-Security")
	if !strings.Contains(hsts, "max-age=63072000") {
		t.Errorf("HSTS should contain max-age=63072000, got: %s", hsts)
	}
	if !strings.Contains(hsts, "includeSubDomains") {
		t.Errorf("HSTS should contain includeSubDomains, got: %s", hsts)
	}
	if !strings.Contains(hsts, "preload") {
		t.Errorf("HSTS should contain preload, got: %s", hsts)
	}
}

func TestBuildCSP(t *testing.T) {
	got := buildCSP(map[string]string{
		"object-src":                "'none'",
		"default-src":               "'self'",
		"upgrade-insecure-requests": "",
	})
	want := "default-src 'self'; object-src 'none'; upgrade-insecure-requests"
	if got != want {
		t.Errorf("buildCSP() = %q, want %q", got, want)
	}
}

func TestDefaultCSPAllowsVideoEmbeds(t *testing.T) {
	for _, isDev := range []bool{true, false} {
		csp := DefaultSecurityHeadersConfig(isDev).ContentSecurityPolicy
		if !strings.Contains(csp, "frame-src https://www.youtube.com") {
			t.Errorf("isDev=%v: CSP should allow YouTube frames, got %s", isDev, csp)
		}
	}
	if prod := DefaultSecurityHeadersConfig(false).ContentSecurityPolicy; !strings.HasSuffix(prod, "upgrade-insecure-requests") {
		t.Errorf("production CSP should upgrade insecure requests, got %s", prod)
	}
}

func TestBuildPermissionsPolicySorted(t *testing.T) {
	got := buildPermissionsPolicy(map[string]string{"usb": "()", "camera": "()"})
	if got != "camera=(), usb=()" {
		t.Errorf("buildPermissionsPolicy() = %q", got)
	}
}

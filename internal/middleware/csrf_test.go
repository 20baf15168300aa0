// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var testAuthKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig_Development(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, true, "0.0.0.0:9000")

	if len(cfg.AuthKey) != 32 {
		t.Errorf("expected 32-byte AuthKey, got %d bytes", len(cfg.AuthKey))
	}
	if len(cfg.TrustedOrigins) != 3 || cfg.TrustedOrigins[0] != "0.0.0.0:9000" {
		t.Errorf("TrustedOrigins = %v", cfg.TrustedOrigins)
	}
	for _, origin := range cfg.TrustedOrigins {
		if strings.HasPrefix(origin, "http") {
			t.Errorf("TrustedOrigin should be host:port, not full URL: %s", origin)
		}
	}
}

func TestDefaultCSRFConfig_Production(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, false, "localhost:8080")

	if len(cfg.TrustedOrigins) != 0 {
		t.Errorf("expected no TrustedOrigins in production, got %d", len(cfg.TrustedOrigins))
	}
}

func TestCSRF_CrossSitePostRejected(t *testing.T) {
	var reached bool
	handler := CSRF(DefaultCSRFConfig(testAuthKey, false, ""))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name      string
		method    string
		fetchSite string
		want      int
	}{
		{"same-origin post", http.MethodPost, "same-origin", http.StatusOK},
		{"cross-site post", http.MethodPost, "cross-site", http.StatusForbidden},
		{"cross-site get", http.MethodGet, "cross-site", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest(tt.method, "/admin/banners/home", nil)
			req.Header.Set("Sec-Fetch-Site", tt.fetchSite)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if reached != (tt.want == http.StatusOK) {
				t.Errorf("handler reached = %v", reached)
			}
		})
	}
}

func TestCSRF_WithCustomErrorHandler(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, false, "")
	cfg.ErrorHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := CSRF(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}

func TestCSRFField(t *testing.T) {
	var field string
	handler := CSRF(DefaultCSRFConfig(testAuthKey, true, "localhost:8080"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		field = string(CSRFField(r))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/login", nil))

	if !strings.HasPrefix(field, `<input type="hidden"`) {
		t.Errorf("CSRFField() = %q", field)
	}
}

// Studyvibe - Study Resource Catalog
// Copyright 2026 Studyvibe Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/studyvibe/studyvibe

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testSessionManager(t *testing.T) *SessionManager {
	t.Helper()
	secret := []byte("0123456789abcdef0123456789abcdef")
	return NewSessionManager(NewMemorySessionStore(), secret, 3*time.Hour, false)
}

func TestBeginSetsCookie(t *testing.T) {
	m := testSessionManager(t)
	w := httptest.NewRecorder()

	session, err := m.Begin(context.Background(), w, "admin")
	if err != nil {
		t.Fatalf("Begin(): %v", err)
	}
	if session.AdminID != "admin" {
		t.Errorf("AdminID = %q, want admin", session.AdminID)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}

	c := cookies[0]
	if c.Name != SessionCookieName {
		t.Errorf("cookie name = %q, want %q", c.Name, SessionCookieName)
	}
	if !c.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Error("session cookie must be SameSite=Lax")
	}
	if c.Value == session.ID {
		t.Error("cookie must carry the signed value, not the raw session ID")
	}
}

func TestAuthenticateRoundTrip(t *testing.T) {
	m := testSessionManager(t)
	w := httptest.NewRecorder()

	if _, err := m.Begin(context.Background(), w, "admin"); err != nil {
		t.Fatal(err)
	}
	cookie := w.Result().Cookies()[0]

	var got *Session
	handler := m.Authenticate(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = SessionFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/status", nil)
	req.AddCookie(cookie)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("session not attached to request context")
	}
	if got.AdminID != "admin" {
		t.Errorf("AdminID = %q, want admin", got.AdminID)
	}
}

func TestAuthenticateIgnoresForgedCookie(t *testing.T) {
	m := testSessionManager(t)

	var got *Session
	handler := m.Authenticate(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = SessionFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/status", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "forged-value"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != nil {
		t.Error("forged cookie produced an authenticated session")
	}
}

func TestEndClearsCookieAndSession(t *testing.T) {
	m := testSessionManager(t)
	w := httptest.NewRecorder()

	session, err := m.Begin(context.Background(), w, "admin")
	if err != nil {
		t.Fatal(err)
	}
	cookie := w.Result().Cookies()[0]

	req := httptest.NewRequest("POST", "/api/logout", nil)
	req.AddCookie(cookie)
	w2 := httptest.NewRecorder()
	m.End(req.Context(), w2, req)

	cleared := w2.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge != -1 {
		t.Error("logout must clear the session cookie")
	}

	if _, err := m.Store().Get(context.Background(), session.ID); err == nil {
		t.Error("session still valid after End")
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// No session in context: 401.
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/api/save-resource", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}

	// With a session: pass through.
	m := testSessionManager(t)
	wBegin := httptest.NewRecorder()
	if _, err := m.Begin(context.Background(), wBegin, "admin"); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", "/api/save-resource", nil)
	req.AddCookie(wBegin.Result().Cookies()[0])

	w2 := httptest.NewRecorder()
	m.Authenticate(handler).ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w2.Code)
	}
}

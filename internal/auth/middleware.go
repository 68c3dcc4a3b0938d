// Studyvibe - Study Resource Catalog
// Copyright 2026 Studyvibe Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/studyvibe/studyvibe

package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	json "github.com/goccy/go-json"

	"github.com/studyvibe/studyvibe/internal/logging"
	"github.com/studyvibe/studyvibe/internal/models"
)

// SessionCookieName is the browser cookie carrying the signed session ID.
const SessionCookieName = "studyvibe.sid"

type contextKey string

const sessionContextKey contextKey = "session"

// SessionManager ties together the session store and the signed cookie
// that carries the session ID to the browser.
type SessionManager struct {
	store  SessionStore
	codec  *securecookie.SecureCookie
	ttl    time.Duration
	secure bool
}

// NewSessionManager creates a SessionManager. secret signs the cookie
// value; secure controls the cookie's Secure attribute and should be
// true whenever the server sits behind TLS.
func NewSessionManager(store SessionStore, secret []byte, ttl time.Duration, secure bool) *SessionManager {
	codec := securecookie.New(secret, nil)
	codec.MaxAge(int(ttl.Seconds()))
	return &SessionManager{
		store:  store,
		codec:  codec,
		ttl:    ttl,
		secure: secure,
	}
}

// Store returns the underlying session store.
func (m *SessionManager) Store() SessionStore { return m.store }

// TTL returns the configured session lifetime.
func (m *SessionManager) TTL() time.Duration { return m.ttl }

// Begin creates a session for the admin and sets the signed cookie.
func (m *SessionManager) Begin(ctx context.Context, w http.ResponseWriter, adminID string) (*Session, error) {
	session, err := NewSession(adminID, m.ttl)
	if err != nil {
		return nil, err
	}
	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}

	encoded, err := m.codec.Encode(SessionCookieName, session.ID)
	if err != nil {
		_ = m.store.Delete(ctx, session.ID)
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return session, nil
}

// End deletes the request's session (if any) and clears the cookie.
func (m *SessionManager) End(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if session := SessionFromContext(r.Context()); session != nil {
		if err := m.store.Delete(ctx, session.ID); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to delete session")
		}
	} else if id, ok := m.sessionIDFromRequest(r); ok {
		_ = m.store.Delete(ctx, id)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionIDFromRequest extracts and verifies the session ID from the
// request cookie.
func (m *SessionManager) sessionIDFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", false
	}

	var id string
	if err := m.codec.Decode(SessionCookieName, cookie.Value, &id); err != nil {
		return "", false
	}
	return id, id != ""
}

// Authenticate resolves the session cookie and, when valid, attaches
// the session to the request context. Requests without a valid session
// pass through unauthenticated.
func (m *SessionManager) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := m.sessionIDFromRequest(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		session, err := m.store.Get(r.Context(), id)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests that carry no valid admin session.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromContext(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(models.ErrorResponse{
				Error: &models.APIError{
					Code:    models.ErrCodeUnauthorized,
					Message: "authentication required",
				},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionFromContext returns the authenticated session, or nil.
func SessionFromContext(ctx context.Context) *Session {
	session, _ := ctx.Value(sessionContextKey).(*Session)
	return session
}

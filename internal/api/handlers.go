// Studyvibe - Study Resource Catalog
// Copyright 2026 Studyvibe Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/studyvibe/studyvibe

package api

import (
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/studyvibe/studyvibe/internal/auth"
	"github.com/studyvibe/studyvibe/internal/catalog"
	"github.com/studyvibe/studyvibe/internal/logging"
	"github.com/studyvibe/studyvibe/internal/metrics"
	"github.com/studyvibe/studyvibe/internal/models"
	"github.com/studyvibe/studyvibe/internal/uploads"
)

// Handler holds the dependencies for all API endpoints.
type Handler struct {
	authenticator *auth.Authenticator
	sessions      *auth.SessionManager
	catalog       *catalog.Service
	uploads       *uploads.Manager
	startTime     time.Time
}

// NewHandler creates an API handler.
func NewHandler(authenticator *auth.Authenticator, sessions *auth.SessionManager, catalogSvc *catalog.Service, uploadsMgr *uploads.Manager) *Handler {
	return &Handler{
		authenticator: authenticator,
		sessions:      sessions,
		catalog:       catalogSvc,
		uploads:       uploadsMgr,
		startTime:     time.Now(),
	}
}

// Login handles POST /api/login. Both an unknown ID and a wrong
// password yield the same 401 so responses cannot be used to probe
// which field was wrong.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation,
			"request body must be valid JSON", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	if err := h.authenticator.Authenticate(req.ID, req.Password); err != nil {
		if errors.Is(err, auth.ErrNotConfigured) {
			logging.Ctx(r.Context()).Error().
				Msg("Login attempted but admin credentials are not configured")
			metrics.RecordLoginAttempt("failure")
			respondError(w, http.StatusInternalServerError, models.ErrCodeMisconfigured,
				"server is not configured for login", nil)
			return
		}
		logging.Ctx(r.Context()).Warn().
			Str("id", sanitizeLogValue(req.ID)).
			Msg("Failed login attempt")
		metrics.RecordLoginAttempt("failure")
		respondError(w, http.StatusUnauthorized, models.ErrCodeInvalidCreds,
			"invalid credentials", nil)
		return
	}

	session, err := h.sessions.Begin(r.Context(), w, req.ID)
	if err != nil {
		metrics.RecordLoginAttempt("failure")
		respondError(w, http.StatusInternalServerError, models.ErrCodeStore,
			"failed to create session", err)
		return
	}

	metrics.RecordLoginAttempt("success")
	metrics.ActiveSessions.Inc()
	logging.Ctx(r.Context()).Info().
		Str("session_id", session.ID[:8]).
		Msg("Admin logged in")

	respondJSON(w, http.StatusOK, models.OKResponse{OK: true})
}

// Logout handles POST /api/logout. Requires an admin session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.End(r.Context(), w, r)
	metrics.ActiveSessions.Dec()
	logging.Ctx(r.Context()).Info().Msg("Admin logged out")
	respondJSON(w, http.StatusOK, models.OKResponse{OK: true})
}

// Status handles GET /api/status. It never errors; an absent or
// invalid session simply reports isAdmin false.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.StatusResponse{
		IsAdmin: auth.SessionFromContext(r.Context()) != nil,
	})
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"uptime":    time.Since(h.startTime).Round(time.Second).String(),
		"resources": h.catalog.Len(),
	})
}

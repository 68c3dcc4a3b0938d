// Studyvibe - Study Resource Catalog
// Copyright 2026 Studyvibe Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/studyvibe/studyvibe

package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/studyvibe/studyvibe/internal/auth"
	"github.com/studyvibe/studyvibe/internal/config"
	"github.com/studyvibe/studyvibe/internal/middleware"
)

// Router wires the API handlers, middleware, and static assets into
// one chi router.
type Router struct {
	cfg           *config.Config
	handler       *Handler
	chiMiddleware *ChiMiddleware
	sessions      *auth.SessionManager
}

// NewRouter creates a Router.
func NewRouter(cfg *config.Config, handler *Handler, sessions *auth.SessionManager) *Router {
	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwCfg.RateLimitRequests = cfg.Security.RateLimitReqs
	mwCfg.RateLimitWindow = cfg.Security.RateLimitWindow
	mwCfg.LoginRateLimit = cfg.Security.LoginRateLimit
	mwCfg.LoginRateWindow = cfg.Security.LoginRateWindow

	return &Router{
		cfg:           cfg,
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwCfg),
		sessions:      sessions,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(router.sessions.Authenticate)

	r.Route("/api", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)

		// Login carries its own strict limiter on top of the general one.
		r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", router.handler.Login)

		r.Get("/status", router.handler.Status)
		r.Get("/health", router.handler.Health)
		r.Get("/catalog", router.handler.Catalog)
		r.Get("/search", router.handler.Search)

		// Admin-only endpoints.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/logout", router.handler.Logout)
			r.Post("/save-resource", router.handler.SaveResource)
		})
	})

	r.Get("/uploads/{name}", router.handler.ServeUpload)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Static front end with SPA fallback to index.html.
	router.setupStatic(r)

	return r
}

// setupStatic serves files from the configured static directory and
// falls back to index.html for unknown paths so client-side routes
// resolve after a full page load.
func (router *Router) setupStatic(r chi.Router) {
	staticDir := router.cfg.Server.StaticDir
	indexPath := filepath.Join(staticDir, "index.html")
	fileServer := http.FileServer(http.Dir(staticDir))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if strings.HasPrefix(req.URL.Path, "/api/") || strings.HasPrefix(req.URL.Path, "/uploads/") {
			http.NotFound(w, req)
			return
		}

		// Serve the file when it exists; anything else gets index.html.
		name := filepath.Join(staticDir, filepath.Clean("/"+req.URL.Path))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, req)
			return
		}
		http.ServeFile(w, req, indexPath)
	})
}

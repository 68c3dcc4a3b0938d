// Studyvibe - Study Resource Catalog
// Copyright 2026 Studyvibe Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/studyvibe/studyvibe

// Package main is the entry point for the Studyvibe server.
//
// Studyvibe is a self-hosted catalog of study resources (uploaded PDFs,
// YouTube videos, and website links) organized by year, stream, and
// subject. The static front end is served alongside a small JSON API;
// a single administrator account can add resources after logging in.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (PORT, ADMIN_ID, ADMIN_PWD_HASH,
//     SESSION_SECRET, plus SECTION_KEY forms such as SERVER_HOST)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// # Admin Setup
//
// Generate a password hash, then export the credentials:
//
//	./studyvibe passwd -p 'your-password'
//	export ADMIN_ID=admin
//	export ADMIN_PWD_HASH='$2a$10$...'
//	export SESSION_SECRET=$(openssl rand -hex 32)
//	./studyvibe
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections, waits up to 10 seconds for in-flight
// requests, then closes the session store.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/studyvibe/studyvibe/internal/api"
	"github.com/studyvibe/studyvibe/internal/auth"
	"github.com/studyvibe/studyvibe/internal/catalog"
	"github.com/studyvibe/studyvibe/internal/config"
	"github.com/studyvibe/studyvibe/internal/logging"
	"github.com/studyvibe/studyvibe/internal/uploads"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if len(os.Args) > 1 && os.Args[1] == "passwd" {
		runPasswd(os.Args[2:])
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("store", cfg.Store.Path).
		Str("uploads", cfg.Uploads.Dir).
		Msg("Starting Studyvibe")

	store := catalog.NewFileStore(cfg.Store.Path)
	catalogSvc, err := catalog.NewService(store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load catalog")
	}

	uploadsMgr, err := uploads.NewManager(cfg.Uploads.Dir, cfg.Uploads.MaxSize)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize uploads directory")
	}

	sessionStore, err := auth.NewSessionStore(cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize session store")
	}
	defer func() {
		if err := sessionStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close session store")
		}
	}()

	sessions := auth.NewSessionManager(
		sessionStore,
		[]byte(cfg.Security.SessionSecret),
		cfg.Security.SessionTTL,
		cfg.Security.CookieSecure,
	)

	authenticator := auth.NewAuthenticator(cfg.Security.AdminID, cfg.Security.AdminPwdHash)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	auth.StartCleanupRoutine(ctx, sessionStore, time.Hour, func(removed int, err error) {
		if err != nil {
			logging.Error().Err(err).Msg("Session cleanup failed")
		} else if removed > 0 {
			logging.Debug().Int("removed", removed).Msg("Expired sessions cleaned up")
		}
	})

	handler := api.NewHandler(authenticator, sessions, catalogSvc, uploadsMgr)
	router := api.NewRouter(cfg, handler, sessions)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}
	logging.Info().Msg("Server stopped")
}

// Studyvibe - Study Resource Catalog
// Copyright 2026 Studyvibe Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/studyvibe/studyvibe

package auth

import (
	"fmt"

	"github.com/studyvibe/studyvibe/internal/config"
)

// NewSessionStore builds a SessionStore from configuration.
// Supported backends are "memory" and "badger".
func NewSessionStore(cfg config.SecurityConfig) (SessionStore, error) {
	switch cfg.SessionStore {
	case "memory", "":
		return NewMemorySessionStore(), nil
	case "badger":
		if cfg.SessionStorePath == "" {
			return nil, fmt.Errorf("session_store_path is required for the badger session store")
		}
		return NewBadgerSessionStore(cfg.SessionStorePath)
	default:
		return nil, fmt.Errorf("unknown session store backend %q", cfg.SessionStore)
	}
}

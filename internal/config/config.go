// Studyvibe - Study Resource Catalog
// Copyright 2026 Studyvibe Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/studyvibe/studyvibe

package config

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML config file, and environment variables (in that order of
// precedence, lowest first).
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Store    StoreConfig    `koanf:"store"`
	Uploads  UploadsConfig  `koanf:"uploads"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment variables:
//   - SERVER_HOST: bind address (default: 0.0.0.0)
//   - SERVER_PORT or PORT: listen port (default: 3000)
//   - SERVER_STATIC_DIR: directory of the static front end (default: public)
type ServerConfig struct {
	Host      string        `koanf:"host"`
	Port      int           `koanf:"port"`
	Timeout   time.Duration `koanf:"timeout"`
	StaticDir string        `koanf:"static_dir"`
}

// StoreConfig holds flat-file catalog store settings.
//
// Environment variables:
//   - STORE_PATH: path of the catalog JSON document (default: data_store.json)
type StoreConfig struct {
	Path string `koanf:"path"`
}

// UploadsConfig holds PDF upload settings.
//
// Environment variables:
//   - UPLOADS_DIR: directory for stored files (default: uploads)
//   - UPLOADS_MAX_SIZE: size ceiling in bytes (default: 10 MiB)
type UploadsConfig struct {
	Dir     string `koanf:"dir"`
	MaxSize int64  `koanf:"max_size"`
}

// SecurityConfig holds authentication and rate limiting settings.
//
// The admin identity, password hash, and session secret are established out
// of band (see the passwd subcommand for hash generation) and are required:
// startup fails fast when any of them is missing.
//
// Environment variables:
//   - ADMIN_ID: admin identity string
//   - ADMIN_PWD_HASH: bcrypt hash of the admin password
//   - SESSION_SECRET: session cookie signing secret (min 32 bytes)
//   - SECURITY_SESSION_TTL: session lifetime (default: 3h)
//   - SECURITY_SESSION_STORE: "memory" or "badger" (default: memory)
//   - SECURITY_SESSION_STORE_PATH: Badger directory (required for badger)
//   - SECURITY_LOGIN_RATE_LIMIT / SECURITY_LOGIN_RATE_WINDOW: login limiter
//   - SECURITY_CORS_ORIGINS: comma-separated allowed origins
type SecurityConfig struct {
	AdminID          string        `koanf:"admin_id"`
	AdminPwdHash     string        `koanf:"admin_pwd_hash"`
	SessionSecret    string        `koanf:"session_secret"`
	SessionTTL       time.Duration `koanf:"session_ttl"`
	SessionStore     string        `koanf:"session_store"`
	SessionStorePath string        `koanf:"session_store_path"`
	CookieSecure     bool          `koanf:"cookie_secure"`
	LoginRateLimit   int           `koanf:"login_rate_limit"`
	LoginRateWindow  time.Duration `koanf:"login_rate_window"`
	RateLimitReqs    int           `koanf:"rate_limit_reqs"`
	RateLimitWindow  time.Duration `koanf:"rate_limit_window"`
	CORSOrigins      []string      `koanf:"cors_origins"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// minSessionSecretLen is the minimum accepted session secret length in bytes.
// Matches the 256-bit key recommendation for HMAC-SHA256 cookie signing.
const minSessionSecretLen = 32

// Validate checks the configuration for consistency and required values.
// All absent-at-startup conditions fail here rather than surfacing as
// per-request errors later.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server: invalid port %d", c.Server.Port)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store: path is required")
	}
	if c.Uploads.Dir == "" {
		return fmt.Errorf("uploads: dir is required")
	}
	if c.Uploads.MaxSize <= 0 {
		return fmt.Errorf("uploads: max_size must be positive, got %d", c.Uploads.MaxSize)
	}

	sec := &c.Security
	if sec.AdminID == "" {
		return fmt.Errorf("security: admin_id is required (set ADMIN_ID)")
	}
	if sec.AdminPwdHash == "" {
		return fmt.Errorf("security: admin_pwd_hash is required (set ADMIN_PWD_HASH, see the passwd subcommand)")
	}
	if _, err := bcrypt.Cost([]byte(sec.AdminPwdHash)); err != nil {
		return fmt.Errorf("security: admin_pwd_hash is not a valid bcrypt hash: %w", err)
	}
	if sec.SessionSecret == "" {
		return fmt.Errorf("security: session_secret is required (set SESSION_SECRET)")
	}
	if len(sec.SessionSecret) < minSessionSecretLen {
		return fmt.Errorf("security: session_secret must be at least %d bytes, got %d",
			minSessionSecretLen, len(sec.SessionSecret))
	}
	if sec.SessionTTL <= 0 {
		return fmt.Errorf("security: session_ttl must be positive")
	}
	switch sec.SessionStore {
	case "memory":
	case "badger":
		if sec.SessionStorePath == "" {
			return fmt.Errorf("security: session_store_path is required for the badger session store")
		}
	default:
		return fmt.Errorf("security: unknown session_store %q (want memory or badger)", sec.SessionStore)
	}
	if sec.LoginRateLimit <= 0 || sec.LoginRateWindow <= 0 {
		return fmt.Errorf("security: login rate limit and window must be positive")
	}
	return nil
}

// Addr returns the listen address in host:port form.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Studyvibe - Study Resource Catalog
// Copyright 2026 Studyvibe Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/studyvibe/studyvibe

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/studyvibe/config.yaml",
	"/etc/studyvibe/config.yml",
}

// ConfigPathEnvVar is the environment variable that overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      3000,
			Timeout:   30 * time.Second,
			StaticDir: "public",
		},
		Store: StoreConfig{
			Path: "data_store.json",
		},
		Uploads: UploadsConfig{
			Dir:     "uploads",
			MaxSize: 10 << 20, // 10 MiB
		},
		Security: SecurityConfig{
			AdminID:          "",
			AdminPwdHash:     "",
			SessionSecret:    "",
			SessionTTL:       3 * time.Hour,
			SessionStore:     "memory",
			SessionStorePath: "",
			LoginRateLimit:   10,
			LoginRateWindow:  15 * time.Minute,
			RateLimitReqs:    100,
			RateLimitWindow:  time.Minute,
			CORSOrigins:      []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in values
//  2. Config File: optional YAML config file (if found)
//  3. Environment Variables: override any setting
//
// The returned Config has passed Validate().
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Environment variables have the highest priority.
	// SERVER_PORT -> server.port, SECURITY_SESSION_TTL -> security.session_ttl
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// CORS origins arrive as a comma-separated string from env.
	if v := k.String("security.cors_origins"); v != "" && strings.Contains(v, ",") {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if err := k.Set("security.cors_origins", origins); err != nil {
			return nil, fmt.Errorf("failed to set cors origins: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// envAliases maps bare environment variable names kept for deployment
// compatibility onto their koanf paths.
var envAliases = map[string]string{
	"PORT":           "server.port",
	"ADMIN_ID":       "security.admin_id",
	"ADMIN_PWD_HASH": "security.admin_pwd_hash",
	"SESSION_SECRET": "security.session_secret",
}

// envSections lists the config sections addressable via prefixed env vars.
var envSections = []string{"server", "store", "uploads", "security", "logging"}

// envTransformFunc maps environment variable names to koanf paths.
// SECURITY_SESSION_STORE_PATH -> security.session_store_path.
// Variables that match neither an alias nor a section prefix are skipped.
func envTransformFunc(key string) string {
	if path, ok := envAliases[key]; ok {
		return path
	}
	lower := strings.ToLower(key)
	for _, section := range envSections {
		if strings.HasPrefix(lower, section+"_") {
			return section + "." + strings.TrimPrefix(lower, section+"_")
		}
	}
	return ""
}

// findConfigFile returns the path of the first config file found, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
		return ""
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

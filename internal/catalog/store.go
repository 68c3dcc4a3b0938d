// Studyvibe - Study Resource Catalog
// Copyright 2026 Studyvibe Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/studyvibe/studyvibe

// Package catalog holds the study-material catalog and its flat-file
// persistence. The catalog is small enough to keep fully in memory;
// every mutation is written back to disk before it is acknowledged.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"github.com/studyvibe/studyvibe/internal/logging"
	"github.com/studyvibe/studyvibe/internal/models"
)

// FileStore persists a Catalog as a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the JSON file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Load reads the catalog from disk. A missing file yields an empty
// catalog. A file that cannot be parsed is renamed aside so it is
// never overwritten, and an empty catalog is returned along with the
// parse error so the caller can log it loudly.
func (s *FileStore) Load() (*models.Catalog, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return models.NewCatalog(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var catalog models.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		aside := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().Unix())
		if renameErr := os.Rename(s.path, aside); renameErr != nil {
			logging.Error().Err(renameErr).Str("path", s.path).
				Msg("Failed to move corrupt catalog file aside")
		} else {
			logging.Error().Str("path", s.path).Str("moved_to", aside).
				Msg("Catalog file is corrupt; moved aside and starting empty")
		}
		return models.NewCatalog(), fmt.Errorf("parsing catalog file %s: %w", s.path, err)
	}

	catalog.Normalize()
	return &catalog, nil
}

// Save writes the catalog atomically: a temp file in the same
// directory is fsynced and then renamed over the target, so a crash
// mid-write never leaves a truncated catalog behind.
func (s *FileStore) Save(catalog *models.Catalog) error {
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp catalog file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("syncing catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing catalog temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing catalog file: %w", err)
	}
	return nil
}

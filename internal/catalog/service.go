// Studyvibe - Study Resource Catalog
// Copyright 2026 Studyvibe Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/studyvibe/studyvibe

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/studyvibe/studyvibe/internal/logging"
	"github.com/studyvibe/studyvibe/internal/metrics"
	"github.com/studyvibe/studyvibe/internal/models"
)

var (
	// ErrEmptyKey is returned when a year, stream, or subject is blank
	// after trimming.
	ErrEmptyKey = errors.New("year, stream, and subject must not be empty")

	// ErrInvalidYear is returned when the year is not a positive integer.
	ErrInvalidYear = errors.New("year must be a positive integer")
)

// Service serializes catalog mutations and keeps the in-memory view
// consistent with the on-disk file.
type Service struct {
	mu      sync.Mutex
	store   *FileStore
	catalog *models.Catalog
}

// NewService loads the catalog from the store. A corrupt catalog file
// is logged and moved aside by the store; the service starts empty in
// that case rather than refusing to boot.
func NewService(store *FileStore) (*Service, error) {
	catalog, err := store.Load()
	if err != nil {
		if catalog == nil {
			return nil, err
		}
		logging.Error().Err(err).Msg("Starting with an empty catalog")
	}
	return &Service{store: store, catalog: catalog}, nil
}

// normalizeKeys trims the placement keys and validates the year.
func normalizeKeys(year, stream, subject string) (string, string, string, error) {
	year = strings.TrimSpace(year)
	stream = strings.TrimSpace(stream)
	subject = strings.TrimSpace(subject)

	if year == "" || stream == "" || subject == "" {
		return "", "", "", ErrEmptyKey
	}
	n, err := strconv.Atoi(year)
	if err != nil || n <= 0 {
		return "", "", "", ErrInvalidYear
	}
	return year, stream, subject, nil
}

// AddResource appends a resource under year/stream/subject, creating
// the path if needed, and persists the catalog before returning. If
// the write fails the in-memory catalog is rolled back so memory and
// disk never diverge.
func (s *Service) AddResource(ctx context.Context, year, stream, subject string, resource models.Resource) (models.Resource, error) {
	year, stream, subject, err := normalizeKeys(year, stream, subject)
	if err != nil {
		return models.Resource{}, err
	}
	if !resource.Type.Valid() {
		return models.Resource{}, fmt.Errorf("unknown resource type %q", resource.Type)
	}

	resource.Title = strings.TrimSpace(resource.Title)
	resource.Description = strings.TrimSpace(resource.Description)
	resource.Views = 0

	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog.Append(year, stream, subject, resource)

	start := time.Now()
	err = s.store.Save(s.catalog)
	metrics.RecordCatalogSave(time.Since(start), err)
	if err != nil {
		s.rollbackAppend(year, stream, subject)
		return models.Resource{}, fmt.Errorf("persisting catalog: %w", err)
	}

	logging.Ctx(ctx).Info().
		Str("year", year).
		Str("stream", stream).
		Str("subject", subject).
		Str("type", string(resource.Type)).
		Str("title", resource.Title).
		Msg("Resource added")

	return resource, nil
}

// rollbackAppend removes the last resource appended to the given path
// and prunes any map levels the append created. Caller holds the lock.
func (s *Service) rollbackAppend(year, stream, subject string) {
	streams, ok := s.catalog.StudyMaterials[year]
	if !ok {
		return
	}
	subjects, ok := streams[stream]
	if !ok {
		return
	}
	resources, ok := subjects[subject]
	if !ok || len(resources) == 0 {
		return
	}

	resources = resources[:len(resources)-1]
	if len(resources) > 0 {
		subjects[subject] = resources
		return
	}
	delete(subjects, subject)
	if len(subjects) == 0 {
		delete(streams, stream)
	}
	if len(streams) == 0 {
		delete(s.catalog.StudyMaterials, year)
	}
}

// Snapshot returns a deep copy of the catalog safe for concurrent use.
func (s *Service) Snapshot() *models.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Clone()
}

// Search scans the catalog for the query, matched case-insensitively
// against stream names, subject names, and resource titles and
// descriptions. An empty year searches all years.
func (s *Service) Search(query, year string) []models.SearchHit {
	query = strings.ToLower(strings.TrimSpace(query))
	year = strings.TrimSpace(year)

	snapshot := s.Snapshot()
	var hits []models.SearchHit
	if query == "" {
		return hits
	}

	for y, streams := range snapshot.StudyMaterials {
		if year != "" && y != year {
			continue
		}
		for stream, subjects := range streams {
			streamMatch := strings.Contains(strings.ToLower(stream), query)
			for subject, resources := range subjects {
				subjectMatch := strings.Contains(strings.ToLower(subject), query)
				for _, resource := range resources {
					if streamMatch || subjectMatch ||
						strings.Contains(strings.ToLower(resource.Title), query) ||
						strings.Contains(strings.ToLower(resource.Description), query) {
						hits = append(hits, models.SearchHit{
							Year:     y,
							Stream:   stream,
							Subject:  subject,
							Resource: resource,
						})
					}
				}
			}
		}
	}
	return hits
}

// Len returns the total number of resources in the catalog.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Len()
}

// Studyvibe - Study Resource Catalog
// Copyright 2026 Studyvibe Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/studyvibe/studyvibe

package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/studyvibe/studyvibe/internal/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store := NewFileStore(filepath.Join(t.TempDir(), "data_store.json"))
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("NewService(): %v", err)
	}
	return svc
}

func TestAddResource(t *testing.T) {
	svc := newTestService(t)

	saved, err := svc.AddResource(context.Background(), "1", "mechanical", "Engineering Mathematics", models.Resource{
		Type:        models.ResourceTypeYouTube,
		Title:       "Linear Algebra Basics",
		URL:         "https://youtube.com/watch?v=example1",
		Views:       999, // caller-supplied views must be reset
		Description: "Video series on matrices and vectors",
	})
	if err != nil {
		t.Fatalf("AddResource(): %v", err)
	}
	if saved.Views != 0 {
		t.Errorf("Views = %d, want 0", saved.Views)
	}

	snap := svc.Snapshot()
	got := snap.Resources("1", "mechanical", "Engineering Mathematics")
	if len(got) != 1 {
		t.Fatalf("expected 1 resource in snapshot, got %d", len(got))
	}
	if got[0].Title != "Linear Algebra Basics" {
		t.Errorf("unexpected title %q", got[0].Title)
	}
}

func TestAddResourcePersists(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "data_store.json"))
	svc, err := NewService(store)
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.AddResource(context.Background(), "2", "mechanical", "Thermodynamics", models.Resource{
		Type:  models.ResourceTypeWebsite,
		Title: "Heat Transfer Fundamentals",
		URL:   "https://example.com/heat",
	})
	if err != nil {
		t.Fatalf("AddResource(): %v", err)
	}

	// A fresh service over the same file must see the resource.
	svc2, err := NewService(store)
	if err != nil {
		t.Fatal(err)
	}
	if svc2.Len() != 1 {
		t.Errorf("reloaded catalog Len = %d, want 1", svc2.Len())
	}
}

func TestAddResourceTrimsKeys(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddResource(context.Background(), " 1 ", "  cse ", " Software Engineering ", models.Resource{
		Type:  models.ResourceTypeWebsite,
		Title: "  SDLC  ",
		URL:   "https://example.com",
	})
	if err != nil {
		t.Fatalf("AddResource(): %v", err)
	}

	snap := svc.Snapshot()
	if got := snap.Resources("1", "cse", "Software Engineering"); len(got) != 1 {
		t.Fatalf("trimmed keys not used, snapshot: %+v", snap.StudyMaterials)
	}
}

func TestAddResourceRejectsEmptyKeys(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddResource(context.Background(), "1", "   ", "Math", models.Resource{
		Type: models.ResourceTypePDF, Title: "notes",
	})
	if !errors.Is(err, ErrEmptyKey) {
		t.Errorf("expected ErrEmptyKey, got %v", err)
	}
	if svc.Len() != 0 {
		t.Error("rejected resource must not be stored")
	}
}

func TestAddResourceRejectsBadYear(t *testing.T) {
	svc := newTestService(t)

	for _, year := range []string{"zero", "-1", "0", "1.5"} {
		_, err := svc.AddResource(context.Background(), year, "cse", "Math", models.Resource{
			Type: models.ResourceTypePDF, Title: "notes",
		})
		if !errors.Is(err, ErrInvalidYear) {
			t.Errorf("year %q: expected ErrInvalidYear, got %v", year, err)
		}
	}
}

func TestAddResourceRejectsUnknownType(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddResource(context.Background(), "1", "cse", "Math", models.Resource{
		Type: "torrent", Title: "notes",
	})
	if err == nil {
		t.Fatal("expected an error for an unknown resource type")
	}
}

func TestAddResourceRollbackOnSaveFailure(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "data_store.json"))
	svc, err := NewService(store)
	if err != nil {
		t.Fatal(err)
	}

	// Point the store at a non-existent directory so Save fails.
	svc.store = NewFileStore(filepath.Join(dir, "missing", "deep", "data_store.json"))

	_, err = svc.AddResource(context.Background(), "1", "cse", "Math", models.Resource{
		Type: models.ResourceTypeWebsite, Title: "notes", URL: "https://example.com",
	})
	if err == nil {
		t.Fatal("expected an error when the catalog cannot be persisted")
	}
	if svc.Len() != 0 {
		t.Errorf("in-memory catalog not rolled back, Len = %d", svc.Len())
	}
}

func TestSearch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	mustAdd := func(year, stream, subject string, res models.Resource) {
		t.Helper()
		if _, err := svc.AddResource(ctx, year, stream, subject, res); err != nil {
			t.Fatalf("AddResource(): %v", err)
		}
	}

	mustAdd("1", "mechanical", "Engineering Mathematics", models.Resource{
		Type: models.ResourceTypeWebsite, Title: "Calculus Fundamentals",
		URL: "https://example.com/calc", Description: "differential and integral calculus",
	})
	mustAdd("1", "civil", "Building Materials", models.Resource{
		Type: models.ResourceTypeWebsite, Title: "Concrete Technology",
		URL: "https://example.com/concrete", Description: "properties of concrete",
	})
	mustAdd("2", "mechanical", "Thermodynamics", models.Resource{
		Type: models.ResourceTypeWebsite, Title: "Heat Transfer",
		URL: "https://example.com/heat", Description: "conduction and convection",
	})

	cases := []struct {
		name  string
		query string
		year  string
		want  int
	}{
		{"matches title", "calculus", "", 1},
		{"matches description", "convection", "", 1},
		{"matches stream name", "mechanical", "", 2},
		{"matches subject name", "building", "", 1},
		{"case insensitive", "CONCRETE", "", 1},
		{"year filter", "mechanical", "2", 1},
		{"no match", "quantum", "", 0},
		{"empty query", "", "", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hits := svc.Search(tc.query, tc.year)
			if len(hits) != tc.want {
				t.Errorf("Search(%q, %q) = %d hits, want %d", tc.query, tc.year, len(hits), tc.want)
			}
		})
	}
}

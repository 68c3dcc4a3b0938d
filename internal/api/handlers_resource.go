// Studyvibe - Study Resource Catalog
// Copyright 2026 Studyvibe Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/studyvibe/studyvibe

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studyvibe/studyvibe/internal/catalog"
	"github.com/studyvibe/studyvibe/internal/logging"
	"github.com/studyvibe/studyvibe/internal/metrics"
	"github.com/studyvibe/studyvibe/internal/models"
	"github.com/studyvibe/studyvibe/internal/uploads"
)

// formParseOverhead is extra room on top of the upload size limit for
// the multipart framing and text fields.
const formParseOverhead = 1 << 20

// SaveResource handles POST /api/save-resource. The request is
// multipart/form-data; a PDF resource carries the file in the pdfFile
// field, link resources carry a url field instead. The upload is
// written to disk before the catalog entry; if the catalog write
// fails the file is removed again so no orphan remains.
func (h *Handler) SaveResource(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.MaxSize()+formParseOverhead)

	if err := r.ParseMultipartForm(h.uploads.MaxSize()); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			metrics.RecordUpload("rejected_size", 0)
			respondError(w, http.StatusRequestEntityTooLarge, models.ErrCodeFileTooLarge,
				"uploaded file exceeds the size limit", nil)
			return
		}
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation,
			"request must be multipart/form-data", err)
		return
	}

	req := models.SaveResourceRequest{
		Year:        r.FormValue("year"),
		Stream:      r.FormValue("stream"),
		Subject:     r.FormValue("subject"),
		Type:        r.FormValue("type"),
		Title:       r.FormValue("title"),
		URL:         r.FormValue("url"),
		Description: r.FormValue("description"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	resourceType := models.ResourceType(req.Type)
	resource := models.Resource{
		Type:        resourceType,
		Title:       req.Title,
		Description: req.Description,
	}

	var stored *uploads.StoredFile
	switch {
	case resourceType == models.ResourceTypePDF:
		var err error
		stored, err = h.uploads.Accept(r)
		if err != nil {
			h.respondUploadError(w, err)
			return
		}
		resource.URL = stored.URL
	case resourceType.RequiresURL():
		if req.URL == "" {
			respondError(w, http.StatusBadRequest, models.ErrCodeValidation,
				"url is required for this resource type", nil)
			return
		}
		resource.URL = req.URL
	}

	saved, err := h.catalog.AddResource(r.Context(), req.Year, req.Stream, req.Subject, resource)
	if err != nil {
		if stored != nil {
			if rmErr := h.uploads.Remove(stored.Name); rmErr != nil {
				logging.Ctx(r.Context()).Error().Err(rmErr).
					Str("file", stored.Name).
					Msg("Failed to remove orphaned upload")
			}
		}
		switch {
		case errors.Is(err, catalog.ErrEmptyKey), errors.Is(err, catalog.ErrInvalidYear):
			respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		default:
			respondError(w, http.StatusInternalServerError, models.ErrCodeStore,
				"failed to save resource", err)
		}
		return
	}

	if stored != nil {
		metrics.RecordUpload("success", stored.Size)
	}
	metrics.CatalogResources.Set(float64(h.catalog.Len()))

	respondJSON(w, http.StatusOK, models.SaveResourceResponse{
		OK:       true,
		Resource: saved,
	})
}

// respondUploadError maps upload failures to API errors.
func (h *Handler) respondUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, uploads.ErrNoFile):
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation,
			"a PDF file is required for this resource type", nil)
	case errors.Is(err, uploads.ErrUnsupportedType):
		metrics.RecordUpload("rejected_type", 0)
		respondError(w, http.StatusBadRequest, models.ErrCodeUnsupportedType,
			"only PDF files are allowed", nil)
	case errors.Is(err, uploads.ErrTooLarge):
		metrics.RecordUpload("rejected_size", 0)
		respondError(w, http.StatusRequestEntityTooLarge, models.ErrCodeFileTooLarge,
			"uploaded file exceeds the size limit", nil)
	default:
		metrics.RecordUpload("error", 0)
		respondError(w, http.StatusInternalServerError, models.ErrCodeStore,
			"failed to store upload", err)
	}
}

// Catalog handles GET /api/catalog, returning the full catalog.
func (h *Handler) Catalog(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Snapshot())
}

// Search handles GET /api/search?q=...&year=...
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation,
			"query parameter q is required", nil)
		return
	}

	hits := h.catalog.Search(query, r.URL.Query().Get("year"))
	respondJSON(w, http.StatusOK, models.SearchResponse{
		Query: query,
		Hits:  hits,
		Total: len(hits),
	})
}

// ServeUpload handles GET /uploads/{name}. Dotfiles and names with
// path separators are refused before touching the filesystem.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	file, err := h.uploads.Open(name)
	if err != nil {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "file not found", nil)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "file not found", nil)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	// Timestamped filenames never change content, cache for 7 days.
	w.Header().Set("Cache-Control", "public, max-age=604800")
	http.ServeContent(w, r, name, info.ModTime(), file)
}

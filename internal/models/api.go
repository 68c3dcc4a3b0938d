// Studyvibe - Study Resource Catalog
// Copyright 2026 Studyvibe Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/studyvibe/studyvibe

package models

// LoginRequest is the JSON body accepted by POST /api/login.
type LoginRequest struct {
	ID       string `json:"id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// OKResponse is the minimal success envelope used by login and logout.
type OKResponse struct {
	OK bool `json:"ok"`
}

// StatusResponse is returned by GET /api/status.
type StatusResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

// SaveResourceResponse is returned by POST /api/save-resource on success.
type SaveResourceResponse struct {
	OK       bool     `json:"ok"`
	Resource Resource `json:"resource"`
}

// SaveResourceRequest carries the multipart form fields of
// POST /api/save-resource. The optional pdfFile part is handled by the
// upload manager, not by this struct.
type SaveResourceRequest struct {
	Year        string `json:"year" validate:"required"`
	Stream      string `json:"stream" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=pdf youtube website"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	URL         string `json:"url" validate:"omitempty,url"`
}

// APIError describes a failed request. Code is a stable machine-readable
// identifier; Message is human-readable.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse is the error envelope used by every failing endpoint.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// Stable API error codes.
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeInvalidCreds    = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeUnsupportedType = "UNSUPPORTED_TYPE"
	ErrCodeFileTooLarge    = "FILE_TOO_LARGE"
	ErrCodeStore           = "STORE_ERROR"
	ErrCodeMisconfigured   = "SERVER_MISCONFIGURED"
	ErrCodeNotFound        = "NOT_FOUND"
)

// SearchHit is one match returned by GET /api/search. It carries the
// catalog coordinates alongside the resource itself.
type SearchHit struct {
	Year     string   `json:"year"`
	Stream   string   `json:"stream"`
	Subject  string   `json:"subject"`
	Resource Resource `json:"resource"`
}

// SearchResponse is returned by GET /api/search.
type SearchResponse struct {
	Query string      `json:"query"`
	Hits  []SearchHit `json:"hits"`
	Total int         `json:"total"`
}

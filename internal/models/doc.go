// Studyvibe - Study Resource Catalog
// Copyright 2026 Studyvibe Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/studyvibe/studyvibe

// Package models defines the shared data types of the catalog server: the
// persisted catalog document (year -> stream -> subject -> resources) and
// the request/response shapes of the HTTP API.
package models

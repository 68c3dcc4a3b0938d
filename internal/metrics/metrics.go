// Studyvibe - Study Resource Catalog
// Copyright 2026 Studyvibe Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/studyvibe/studyvibe

// Package metrics exposes Prometheus instrumentation for the API,
// the catalog store, and file uploads.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of admin login attempts",
		},
		[]string{"result"}, // "success", "failure", "rate_limited"
	)

	// Catalog metrics
	CatalogResources = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_resources",
			Help: "Current number of resources in the catalog",
		},
	)

	CatalogSaveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_save_duration_seconds",
			Help:    "Duration of catalog file writes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	CatalogSaveErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_save_errors_total",
			Help: "Total number of failed catalog file writes",
		},
	)

	// Upload metrics
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uploads_total",
			Help: "Total number of file upload attempts",
		},
		[]string{"result"}, // "success", "rejected_type", "rejected_size", "error"
	)

	UploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "upload_bytes_total",
			Help: "Total bytes of successfully stored uploads",
		},
	)

	// Session metrics
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Current number of admin sessions",
		},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordLoginAttempt records a login attempt outcome.
func RecordLoginAttempt(result string) {
	LoginAttemptsTotal.WithLabelValues(result).Inc()
}

// RecordUpload records an upload attempt outcome.
func RecordUpload(result string, bytes int64) {
	UploadsTotal.WithLabelValues(result).Inc()
	if result == "success" && bytes > 0 {
		UploadBytes.Add(float64(bytes))
	}
}

// RecordCatalogSave records a catalog write.
func RecordCatalogSave(duration time.Duration, err error) {
	CatalogSaveDuration.Observe(duration.Seconds())
	if err != nil {
		CatalogSaveErrors.Inc()
	}
}

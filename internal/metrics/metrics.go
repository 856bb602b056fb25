// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

// Package metrics provides Prometheus instrumentation for the collection
// pipeline: fetch latency and failure classes, rate limiter waits, commit
// outcomes, loader conflicts, dead-letter queue depth, and circuit breaker
// state. Exposed through the operator surface at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Fetch metrics

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collector_fetch_duration_seconds",
			Help:    "Duration of upstream Stats API fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	FetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_fetch_errors_total",
			Help: "Total upstream fetch failures by source and classification",
		},
		[]string{"source", "class"}, // class: not_found, rate_limited, transient, malformed
	)

	// Rate limiter metrics

	RateLimitWaits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_ratelimit_waits_total",
			Help: "Total acquisitions that had to wait for a request slot",
		},
		[]string{"source"},
	)

	RateLimitCooldowns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_ratelimit_cooldowns_total",
			Help: "Total cooldown windows imposed after source-signaled throttling",
		},
		[]string{"source"},
	)

	// Circuit breaker metrics

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "collector_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Loader metrics

	CommitBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_commit_batches_total",
			Help: "Total staged batches committed, by outcome",
		},
		[]string{"outcome"}, // committed, partial, conflict, failed
	)

	RowsUpserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_rows_upserted_total",
			Help: "Total warehouse rows written through the reconciling loader",
		},
		[]string{"entity"}, // game, event, player_stat, team_stat, transaction, roster, standings, schedule
	)

	LoaderConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "collector_loader_conflicts_total",
			Help: "Total commits rejected because they would downgrade complete data",
		},
	)

	// Work unit metrics

	UnitsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_work_units_total",
			Help: "Total work units reaching a terminal state",
		},
		[]string{"kind", "state"}, // state: committed, failed, dead
	)

	UnitsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "collector_work_units_skipped_total",
			Help: "Total game units skipped because the completeness oracle reported them complete",
		},
	)

	RetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_retry_attempts_total",
			Help: "Total in-run retry attempts by source",
		},
		[]string{"source"},
	)

	// Dead-letter metrics

	DeadLetters = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_dead_letters_total",
			Help: "Total work units dead-lettered, by failure class",
		},
		[]string{"class"},
	)

	DeadLetterDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "collector_dead_letter_depth",
			Help: "Current number of persisted dead-letter entries",
		},
	)

	// Operator API metrics

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_http_requests_total",
			Help: "Total operator API requests by method, path, and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collector_http_request_duration_seconds",
			Help:    "Operator API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// RecordAPIRequest instruments one completed operator API request.
func RecordAPIRequest(method, path, status string, duration float64) {
	HTTPRequests.WithLabelValues(method, path, status).Inc()
	HTTPDuration.WithLabelValues(method, path).Observe(duration)
}

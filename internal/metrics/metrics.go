// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

// Package metrics provides Prometheus instrumentation for the polling
// pipeline: source fetch outcomes, tick timing, cache efficiency, and
// publish/skip counts for the output sinks.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Source fetch metrics
	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streamboard_source_fetch_duration_seconds",
			Help:    "Duration of upstream source fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	SourceFetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamboard_source_fetch_failures_total",
			Help: "Total number of failed upstream source fetches",
		},
		[]string{"source"},
	)

	SourceDown = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "streamboard_source_down",
			Help: "1 while a source is past its consecutive-failure threshold",
		},
		[]string{"source"},
	)

	SourceBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "streamboard_source_breaker_state",
			Help: "Circuit breaker state per source (0 closed, 1 half-open, 2 open)",
		},
		[]string{"source"},
	)

	// Scheduler metrics
	TickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "streamboard_tick_duration_seconds",
			Help:    "Duration of one full scheduler tick in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
	)

	TicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streamboard_ticks_total",
			Help: "Total number of completed scheduler ticks",
		},
	)

	// Library cache metrics
	LibraryCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streamboard_library_cache_hits_total",
			Help: "Total number of library cache hits",
		},
	)

	LibraryCacheRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamboard_library_cache_refreshes_total",
			Help: "Total number of library cache refresh attempts",
		},
		[]string{"result"}, // "ok", "error"
	)

	// Publish metrics
	ArtifactPublishes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamboard_artifact_publishes_total",
			Help: "Dashboard artifact writes by outcome",
		},
		[]string{"outcome"}, // "created", "updated", "skipped", "error"
	)

	PresencePushes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamboard_presence_pushes_total",
			Help: "Presence updates by outcome",
		},
		[]string{"outcome"}, // "ok", "rate_limited", "error"
	)

	// Streams currently shown on the dashboard
	ActiveStreams = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "streamboard_active_streams",
			Help: "Merged active stream count from the latest tick",
		},
	)
)

// ObserveFetch records one source fetch outcome.
func ObserveFetch(source string, start time.Time, err error) {
	SourceFetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		SourceFetchFailures.WithLabelValues(source).Inc()
	}
}

// SetBreakerState records a source circuit breaker transition.
func SetBreakerState(source string, state int) {
	SourceBreakerState.WithLabelValues(source).Set(float64(state))
}

// SetSourceDown flips the per-source down gauge.
func SetSourceDown(source string, down bool) {
	v := 0.0
	if down {
		v = 1.0
	}
	SourceDown.WithLabelValues(source).Set(v)
}

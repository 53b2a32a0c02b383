// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

var (
	// httpRequestsTotal counts API requests by route and status code.
	// Labels: method, route, status
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "embercheck",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total API requests by method, route, and status code",
	}, []string{"method", "route", "status"})

	// httpRequestSeconds measures request handling latency.
	// Labels: method, route
	httpRequestSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "embercheck",
		Subsystem: "http",
		Name:      "request_seconds",
		Help:      "API request handling latency",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"method", "route"})

	// lintRequestsTotal counts lint runs by outcome.
	// Labels: outcome (clean, findings, failed)
	lintRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "embercheck",
		Subsystem: "lint",
		Name:      "requests_total",
		Help:      "Total lint runs by outcome",
	}, []string{"outcome"})

	// lintFindingsTotal counts findings by rule and severity.
	// Labels: rule, severity
	lintFindingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "embercheck",
		Subsystem: "lint",
		Name:      "findings_total",
		Help:      "Total findings by rule and severity",
	}, []string{"rule", "severity"})
)

// RecordLintOutcome records one lint run's outcome.
//
// Inputs:
//   - outcome: "clean", "findings", or "failed".
func RecordLintOutcome(outcome string) {
	lintRequestsTotal.WithLabelValues(outcome).Inc()
}

// RecordFinding records one finding by rule and severity.
func RecordFinding(rule, severity string) {
	lintFindingsTotal.WithLabelValues(rule, severity).Inc()
}

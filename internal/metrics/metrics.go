// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics exposes Prometheus instrumentation for the daemon.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PipelineRuns counts pipeline executions by final outcome.
	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autopress_pipeline_runs_total",
		Help: "Pipeline executions by outcome.",
	}, []string{"outcome"})

	// PipelineDuration observes end-to-end pipeline latency.
	PipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "autopress_pipeline_duration_seconds",
		Help:    "End-to-end pipeline run duration.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	// Publishes counts deliveries by platform and outcome.
	Publishes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autopress_publishes_total",
		Help: "Publish attempts by platform and outcome.",
	}, []string{"platform", "outcome"})

	// LLMCalls counts model invocations by provider and stage.
	LLMCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autopress_llm_calls_total",
		Help: "LLM invocations by provider and stage.",
	}, []string{"provider", "stage"})

	// StateTransitions counts log store status changes by edge.
	StateTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autopress_state_transitions_total",
		Help: "Content log status transitions by target state.",
	}, []string{"to"})
)

// Handler serves the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Package metrics defines the Prometheus instruments exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Broadcast hub metrics
var (
	HubConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_connected_clients",
			Help: "Currently connected alert observers",
		},
	)

	HubBroadcastsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_broadcasts_total",
			Help: "Total broadcast fan-outs issued",
		},
	)

	HubSlowClientsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_slow_clients_evicted_total",
			Help: "Observers dropped because their send buffer was full",
		},
	)
)

// Signal feed metrics
var (
	SignalsEmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_signals_emitted_total",
			Help: "Mock social signals emitted, by priority",
		},
		[]string{"priority"},
	)
)

// Cache metrics
var (
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Cache lookups by outcome (hit/miss/expired/unavailable)",
		},
		[]string{"outcome"},
	)

	CacheWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_write_failures_total",
			Help: "Cache writes dropped because the store was unavailable",
		},
	)
)

// Verification metrics
var (
	VerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verifications_total",
			Help: "Report verification attempts by outcome",
		},
		[]string{"outcome"},
	)

	ClassifierRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "classifier_request_duration_seconds",
			Help:    "External classifier call latency in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts outbound calls to the remote job API.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_api_requests_total",
			Help: "Total number of requests sent to the remote job API.",
		},
		[]string{"method", "route", "code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobboard_api_request_duration_seconds",
			Help:    "Latency of requests sent to the remote job API.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// StoreTransitionsTotal counts reducer runs per store and action. Fenced
	// completions that were discarded are counted with applied="false".
	StoreTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_store_transitions_total",
			Help: "Total number of state transitions per store and action.",
		},
		[]string{"store", "action", "applied"},
	)

	WSClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobboard_ws_clients",
			Help: "Number of connected websocket clients.",
		},
	)
)

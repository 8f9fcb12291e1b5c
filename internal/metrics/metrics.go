// Package metrics exposes Prometheus collectors for the storage and HTTP
// layers. Everything registers on the default registry; serve it with
// promhttp.Handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CollectionLoads counts whole-collection reads, per collection.
	CollectionLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_collection_loads_total",
		Help: "Number of whole-collection loads from the storage backend.",
	}, []string{"collection"})

	// CollectionSaves counts whole-collection rewrites, per collection.
	CollectionSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_collection_saves_total",
		Help: "Number of whole-collection saves to the storage backend.",
	}, []string{"collection"})

	// CollectionErrors counts failed loads and saves, per collection.
	CollectionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_collection_errors_total",
		Help: "Number of storage backend failures.",
	}, []string{"collection", "op"})

	// RequestDuration observes HTTP request latency per route and status.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tracker_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

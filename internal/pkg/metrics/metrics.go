package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// APIRequestsTotal counts requests sent to the car resource.
	// outcome: success (2xx), status (non-2xx), error (transport or decode).
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carstock_api_requests_total",
			Help: "Total number of requests sent to the car resource.",
		},
		[]string{"method", "outcome"},
	)

	// APIRequestLatency records the round trip of each request.
	APIRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "carstock_api_request_latency_seconds",
			Help:    "Latency of requests sent to the car resource.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// ExportsTotal counts CSV exports by target (download, s3, file, stdout).
	ExportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carstock_exports_total",
			Help: "Total number of CSV exports.",
		},
		[]string{"target"},
	)

	// InventoryEventsTotal counts inventory change events by direction (published, received).
	InventoryEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carstock_inventory_events_total",
			Help: "Total number of inventory change events exchanged over MQTT.",
		},
		[]string{"direction", "event"},
	)

	// CollectionSize is the number of cars held after the last successful load.
	CollectionSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "carstock_collection_size",
			Help: "Number of cars in the in-memory collection.",
		},
	)
)

func init() {
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestLatency)
	prometheus.MustRegister(ExportsTotal)
	prometheus.MustRegister(InventoryEventsTotal)
	prometheus.MustRegister(CollectionSize)
}

// ObserveAPI records one request to the car resource.
func ObserveAPI(method, outcome string, elapsed time.Duration) {
	APIRequestsTotal.WithLabelValues(method, outcome).Inc()
	APIRequestLatency.WithLabelValues(method).Observe(elapsed.Seconds())
}

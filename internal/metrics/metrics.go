// Package metrics holds the Prometheus collectors shared by the API server
// and the loader command.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"method", "route", "status"})
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "parking_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
	}, []string{"method", "route"})

	LoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_loader_runs_total",
		Help: "Stall loads by outcome (committed, failed)",
	}, []string{"outcome"})
	LoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "parking_loader_duration_seconds",
		Help:    "Wall time of committed stall loads",
		Buckets: []float64{.01, .05, .1, .5, 1, 5, 30},
	})
	StallsLoaded = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "parking_loader_stalls",
		Help: "Stalls written by the last committed load of a lot",
	}, []string{"lot_id"})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parking_cache_hits_total",
		Help: "Spot listing cache hits",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parking_cache_misses_total",
		Help: "Spot listing cache misses",
	})

	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_occupancy_events_total",
		Help: "Occupancy events recorded by type",
	}, []string{"event_type"})
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "parking_websocket_clients",
		Help: "Connected occupancy stream clients",
	})
)

// Handler exposes the default registry for gin.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

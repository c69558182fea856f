// Package metrics exposes Prometheus metrics for the server: HTTP traffic,
// dataset reloads, connected clients and session activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recipechain/internal/session"
)

// Collector holds the metrics of one server instance on its own registry
type Collector struct {
	namespace string
	registry  *prometheus.Registry

	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	DatasetReloads *prometheus.CounterVec
	DatasetRecords *prometheus.GaugeVec
}

// NewCollector creates a collector whose metric names are prefixed with namespace
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		namespace: namespace,
		registry:  registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		DatasetReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dataset_reloads_total",
				Help:      "Total number of dataset reloads",
			},
			[]string{"status"},
		),
		DatasetRecords: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_records",
				Help:      "Number of records in the loaded dataset",
			},
			[]string{"entity"},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.DatasetReloads,
		c.DatasetRecords,
	)
	return c
}

// Registry returns the registry metrics are registered on
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordReload counts a dataset reload and records its size
func (c *Collector) RecordReload(err error, counts map[string]int) {
	if err != nil {
		c.DatasetReloads.WithLabelValues("error").Inc()
		return
	}
	c.DatasetReloads.WithLabelValues("ok").Inc()
	for entity, n := range counts {
		c.DatasetRecords.WithLabelValues(entity).Set(float64(n))
	}
}

// WatchClients exposes a live count of connected event stream clients
func (c *Collector) WatchClients(count func() int) {
	c.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: c.namespace,
			Name:      "sse_clients",
			Help:      "Number of connected event stream clients",
		},
		func() float64 { return float64(count()) },
	))
}

// WatchSession exposes the activity counters of a session
func (c *Collector) WatchSession(stats func() session.Stats) {
	counter := func(name, help string, get func(session.Stats) uint64) prometheus.Collector {
		return prometheus.NewCounterFunc(
			prometheus.CounterOpts{Namespace: c.namespace, Name: name, Help: help},
			func() float64 { return float64(get(stats())) },
		)
	}
	c.registry.MustRegister(
		counter("layout_builds_total", "Total number of chain layouts built",
			func(s session.Stats) uint64 { return s.LayoutBuilds }),
		counter("simulation_ticks_total", "Total number of simulation ticks",
			func(s session.Stats) uint64 { return s.Ticks }),
		counter("frames_total", "Total number of frames published",
			func(s session.Stats) uint64 { return s.Frames }),
		counter("chain_cache_hits_total", "Total number of chain cache hits",
			func(s session.Stats) uint64 { return s.CacheHits }),
		counter("chain_cache_misses_total", "Total number of chain cache misses",
			func(s session.Stats) uint64 { return s.CacheMisses }),
	)
}

// Middleware records request counts and latency per chi route pattern
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

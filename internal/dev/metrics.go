package dev

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "wcdev"

// Metrics holds the dev server's Prometheus collectors. A nil *Metrics
// records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	builds        *prometheus.CounterVec
	buildDuration prometheus.Histogram
	reloads       prometheus.Counter
	clients       prometheus.Gauge
	requests      *prometheus.CounterVec
}

// NewMetrics registers the dev server collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		builds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "builds_total",
			Help:      "Total number of WASM builds by result",
		}, []string{"status"}),
		buildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      "build_duration_seconds",
			Help:      "WASM build duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		reloads: factory.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "reloads_total",
			Help:      "Total number of reload broadcasts",
		}),
		clients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "reload_clients",
			Help:      "Number of pages connected to the reload channel",
		}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method and status",
		}, []string{"method", "status"}),
	}
}

// Handler exposes the collectors in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts requests by method and status code.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
	})
}

func (m *Metrics) built(result BuildResult) {
	if m == nil {
		return
	}
	status := "success"
	if !result.Success {
		status = "failure"
	}
	m.builds.WithLabelValues(status).Inc()
	m.buildDuration.Observe(result.Duration.Seconds())
}

func (m *Metrics) reloaded() {
	if m == nil {
		return
	}
	m.reloads.Inc()
}

func (m *Metrics) setClients(n int) {
	if m == nil {
		return
	}
	m.clients.Set(float64(n))
}

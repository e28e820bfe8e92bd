package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the site collectors on a private registry, so several
// servers (and tests) can coexist in one process.
type Metrics struct {
	registry          *prometheus.Registry
	requestDuration   *prometheus.HistogramVec
	requestsInFlight  prometheus.Gauge
	pages             prometheus.Gauge
	descriptorReloads *prometheus.CounterVec
}

// NewMetrics registers the twcfg collectors plus the Go and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "twcfg_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		requestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "twcfg_http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		}),
		pages: factory.NewGauge(prometheus.GaugeOpts{
			Name: "twcfg_pages",
			Help: "Number of stored pages",
		}),
		descriptorReloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "twcfg_descriptor_reloads_total",
			Help: "Descriptor hot reloads by outcome",
		}, []string{"outcome"}), // outcome=success|failure
	}
}

// Registry exposes the registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// SetPages records the current page count.
func (m *Metrics) SetPages(n int) {
	m.pages.Set(float64(n))
}

// DescriptorReloaded counts a reload attempt. A nil err is a success.
func (m *Metrics) DescriptorReloaded(err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.descriptorReloads.WithLabelValues(outcome).Inc()
}

// Middleware records request duration labeled by the chi route pattern,
// which keeps page hashes out of the label set.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		m.requestsInFlight.Inc()
		defer m.requestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		m.requestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).
			Observe(time.Since(start).Seconds())
	})
}

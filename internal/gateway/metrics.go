package gateway

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the gateway's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	Requests    *prometheus.CounterVec
	Latency     *prometheus.HistogramVec
	ProxyErrors *prometheus.CounterVec
	TableLoads  *prometheus.CounterVec
}

// NewMetrics registers the collectors on a private registry so several
// gateways can coexist in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fixi_gateway_requests_total",
			Help: "HTTP requests served by the gateway",
		}, []string{"route", "method", "status"}),
		Latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fixi_gateway_request_duration_seconds",
			Help:    "Latency of gateway requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		ProxyErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fixi_gateway_proxy_errors_total",
			Help: "Proxied requests that failed or returned an upstream error",
		}, []string{"kind"}),
		TableLoads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fixi_gateway_table_loads_total",
			Help: "Table snapshots served, by resource and outcome",
		}, []string{"resource", "outcome"}),
	}
}

// Handler exposes the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// instrument records count and latency per matched route pattern.
func (m *Metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.Requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.Latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Package metrics exposes Prometheus collectors for the console and the API client.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	listEvents       *prometheus.CounterVec
	workspaces       prometheus.Gauge
	consoleRequests  *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "backoffice",
			Name:      "upstream_requests_total",
			Help:      "Requests sent to the records API, by method, path and status (0 = transport error).",
		}, []string{"method", "path", "status"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "backoffice",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of records API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		listEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "backoffice",
			Name:      "list_events_total",
			Help:      "List loads and uploads by variant, operation and outcome.",
		}, []string{"variant", "op", "outcome"}),
		workspaces: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "backoffice",
			Name:      "active_workspaces",
			Help:      "Workspaces currently held by the console.",
		}),
		consoleRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "backoffice",
			Name:      "console_requests_total",
			Help:      "Console HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.upstreamRequests,
		m.upstreamDuration,
		m.listEvents,
		m.workspaces,
		m.consoleRequests,
	)
	return m
}

// ObserveUpstream matches apiclient.Observer.
func (m *Metrics) ObserveUpstream(method, path string, status int, elapsed time.Duration) {
	m.upstreamRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.upstreamDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// ObserveList matches records.Options.Observe.
func (m *Metrics) ObserveList(variant, op, outcome string) {
	m.listEvents.WithLabelValues(variant, op, outcome).Inc()
}

func (m *Metrics) SetWorkspaces(n int) {
	m.workspaces.Set(float64(n))
}

func (m *Metrics) ObserveConsole(method, route string, status int) {
	m.consoleRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Package metrics exposes Prometheus metrics for the reveal service.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophreveal/internal/server/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gophreveal"

// Metrics owns a private registry so tests and multiple servers in one
// process do not collide.
type Metrics struct {
	registry    *prometheus.Registry
	events      *prometheus.CounterVec
	callbacks   *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Committed events by kind.",
		}, []string{"kind"}),
		callbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "callbacks_total",
			Help:      "Oracle callbacks by callback name and HTTP status.",
		}, []string{"callback", "status"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "gRPC handling time by method and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "code"}),
	}
	m.registry.MustRegister(
		m.events,
		m.callbacks,
		m.rpcDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Notify counts a committed event. It makes Metrics a notify.Subscriber.
func (m *Metrics) Notify(_ context.Context, e *models.Event) {
	m.events.WithLabelValues(e.Kind).Inc()
}

func (m *Metrics) ObserveCallback(callback string, status int) {
	m.callbacks.WithLabelValues(callback, http.StatusText(status)).Inc()
}

func (m *Metrics) ObserveRPC(method, code string, d time.Duration) {
	m.rpcDuration.WithLabelValues(method, code).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Package metrics exposes Prometheus metrics for the HTTP layer and the document store.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns the collectors served on /metrics.
type Registry struct {
	registry *prometheus.Registry
}

// NewRegistry creates a registry with the HTTP, store and event collectors
// plus the Go runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	reg.MustRegister(httpRequestDuration, httpRequestsTotal, httpRequestsInFlight)
	reg.MustRegister(storeOperationDuration, storeOperationsTotal)
	reg.MustRegister(eventsPublishedTotal)

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Registry{registry: reg}
}

// MustRegister registers additional collectors and panics on error.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.registry.MustRegister(cs...)
}

// Handler serves the registry in Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Gatherer returns the underlying prometheus.Gatherer.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

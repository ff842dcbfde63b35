package registry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Registry exposes the exporter metrics only, without the default
// Prometheus go-client process and runtime metrics.
type Registry struct {
	registry *prometheus.Registry
	logger   logrus.FieldLogger
}

func NewRegistry(logger logrus.FieldLogger) *Registry {
	return &Registry{
		registry: prometheus.NewRegistry(),
		logger:   logger,
	}
}

// Register registers the provided Collector with the Registry
func (r *Registry) Register(collector prometheus.Collector) error {
	return r.registry.Register(collector)
}

func (r *Registry) MustRegister(collectors ...prometheus.Collector) {
	r.registry.MustRegister(collectors...)
}

func (r *Registry) Unregister(collector prometheus.Collector) bool {
	return r.registry.Unregister(collector)
}

func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns an http.Handler serving the Registry. Gathering errors
// are logged and the remaining metrics are still served.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		ErrorLog:      r.logger.WithField("component", "registry"),
		ErrorHandling: promhttp.ContinueOnError,
	})
}

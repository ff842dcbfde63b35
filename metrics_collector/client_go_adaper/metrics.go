package client_go_adaper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/longhorn/dsm-exporter/types"
)

const (
	exporterSubsystem = "exporter"
)

// RequestMetrics records the latency and the result of every DSM Web API
// request. It is handed to the API client as its request observer.
type RequestMetrics struct {
	requestLatency *prometheus.HistogramVec
	requestResult  *prometheus.CounterVec
}

func NewRequestMetrics() *RequestMetrics {
	return &RequestMetrics{
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: types.MetricPrefix,
				Subsystem: exporterSubsystem,
				Name:      "api_request_duration_seconds",
				Help:      "DSM Web API request latency in seconds. Broken down by API and method.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15),
			},
			[]string{"api", "method"},
		),
		requestResult: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: types.MetricPrefix,
				Subsystem: exporterSubsystem,
				Name:      "api_requests_total",
				Help:      "Number of DSM Web API requests, partitioned by API, method and result code.",
			},
			[]string{"api", "method", "code"},
		),
	}
}

// Register adds the request metrics to reg.
func (m *RequestMetrics) Register(reg prometheus.Registerer) error {
	if err := reg.Register(m.requestLatency); err != nil {
		return err
	}
	return reg.Register(m.requestResult)
}

func (m *RequestMetrics) ObserveRequest(api, method, result string, duration time.Duration) {
	m.requestLatency.WithLabelValues(api, method).Observe(duration.Seconds())
	m.requestResult.WithLabelValues(api, method, result).Inc()
}

package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	subsystemExporter = "exporter"
)

type metricInfo struct {
	Desc *prometheus.Desc
	Type prometheus.ValueType
}

package metricscollector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/longhorn/dsm-exporter/types"
)

type SystemCollector struct {
	*baseCollector

	modelMetric  *infoMetric
	scalarMetric map[string]*prometheus.GaugeVec
}

func NewSystemCollector(logger logrus.FieldLogger) *SystemCollector {
	sc := &SystemCollector{
		baseCollector: newBaseCollector(subsystemSystem, logger),
		modelMetric: newInfoMetric(MetricModel, "Model, amount of RAM, serial number and DSM version of the DiskStation",
			infoModelLabel, infoRAMLabel, infoSerialLabel, infoVersionLabel),
		// Label-less vectors so that a gauge is absent until its first value.
		scalarMetric: map[string]*prometheus.GaugeVec{
			MetricCPULoad:     newGaugeVec(MetricCPULoad, "CPU load of the DiskStation (0-100)"),
			MetricTemperature: newGaugeVec(MetricTemperature, "Temperature of the DiskStation"),
			MetricUptime:      newGaugeVec(MetricUptime, "Uptime of the DiskStation in seconds"),
			MetricMemoryUsed:  newGaugeVec(MetricMemoryUsed, "Memory used in bytes"),
			MetricMemoryTotal: newGaugeVec(MetricMemoryTotal, "Total memory in bytes"),
			MetricNetworkUp:   newGaugeVec(MetricNetworkUp, "Network upload throughput in bytes per second"),
			MetricNetworkDown: newGaugeVec(MetricNetworkDown, "Network download throughput in bytes per second"),
		},
	}

	sc.add(sc.modelMetric)
	for _, name := range []string{
		MetricCPULoad, MetricTemperature, MetricUptime,
		MetricMemoryUsed, MetricMemoryTotal, MetricNetworkUp, MetricNetworkDown,
	} {
		sc.add(sc.scalarMetric[name])
	}
	return sc
}

func (sc *SystemCollector) Update(identity types.DeviceIdentity, utilization types.Utilization) {
	values := NormalizeSystem(identity, utilization)

	sc.modelMetric.set(values.Info)
	for name, value := range values.Values() {
		sc.scalarMetric[name].WithLabelValues().Set(value)
	}

	if values.MemoryUsed == nil {
		sc.logger.Debugf("Skipped memory metrics, total memory reported as %v", utilization.MemorySize)
	}
}

package metricscollector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/longhorn/dsm-exporter/types"
)

type DiskCollector struct {
	*baseCollector

	smartStatusMetric *stateSet
	statusMetric      *stateSet
	tempMetric        *prometheus.GaugeVec

	series *seriesTracker
}

func NewDiskCollector(logger logrus.FieldLogger) *DiskCollector {
	labels := []string{diskIDLabel, diskNameLabel, diskModelLabel}

	dc := &DiskCollector{
		baseCollector:     newBaseCollector(subsystemDisk, logger),
		smartStatusMetric: newStateSet(MetricDiskSmartStatus, "SMART status of disk", types.DiskStatusList, labels...),
		statusMetric:      newStateSet(MetricDiskStatus, "Status of disk", types.DiskStatusList, labels...),
		tempMetric:        newGaugeVec(MetricDiskTemp, "Temperature of disk", labels...),
		series:            newSeriesTracker(),
	}
	dc.add(dc.smartStatusMetric, dc.statusMetric, dc.tempMetric)
	return dc
}

// Update publishes every disk under its id, name and model. A renamed disk
// gets a new label set and the old one is retracted.
func (dc *DiskCollector) Update(disks []types.Disk) {
	for _, d := range disks {
		labelValues := []string{d.ID, d.Name, d.Model}

		dc.smartStatusMetric.set(NormalizeDiskStatus(d.SmartStatus), labelValues...)
		dc.statusMetric.set(NormalizeDiskStatus(d.Status), labelValues...)
		dc.tempMetric.WithLabelValues(labelValues...).Set(d.Temperature)
		dc.series.observe(labelValues...)
	}

	retracted := dc.series.sweep(func(labelValues []string) {
		dc.smartStatusMetric.delete(labelValues...)
		dc.statusMetric.delete(labelValues...)
		dc.tempMetric.DeleteLabelValues(labelValues...)
	})
	if retracted > 0 {
		dc.logger.Infof("Retracted metrics of %v disk label sets no longer reported", retracted)
	}
}

package metricscollector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/longhorn/dsm-exporter/types"
)

type VolumeCollector struct {
	*baseCollector

	statusMetric   *stateSet
	sizeMetric     *prometheus.GaugeVec
	sizeUsedMetric *prometheus.GaugeVec

	series *seriesTracker
}

func NewVolumeCollector(logger logrus.FieldLogger) *VolumeCollector {
	vc := &VolumeCollector{
		baseCollector:  newBaseCollector(subsystemVolume, logger),
		statusMetric:   newStateSet(MetricVolumeStatus, "Status of volume", types.VolumeStatusList, volumeIDLabel),
		sizeMetric:     newGaugeVec(MetricVolumeSize, "Size of volume in bytes", volumeIDLabel),
		sizeUsedMetric: newGaugeVec(MetricVolumeSizeUsed, "Used size of volume in bytes", volumeIDLabel),
		series:         newSeriesTracker(),
	}
	vc.add(vc.statusMetric, vc.sizeMetric, vc.sizeUsedMetric)
	return vc
}

func (vc *VolumeCollector) Update(volumes []types.Volume) {
	for _, v := range volumes {
		status := NormalizeVolumeStatus(v.Status)
		if status != v.Status && status == FallbackState {
			vc.logger.Debugf("Volume %v reported unknown status %v", v.ID, v.Status)
		}

		vc.statusMetric.set(status, v.ID)
		vc.sizeMetric.WithLabelValues(v.ID).Set(float64(v.TotalSize))
		vc.sizeUsedMetric.WithLabelValues(v.ID).Set(float64(v.UsedSize))
		vc.series.observe(v.ID)
	}

	retracted := vc.series.sweep(func(labelValues []string) {
		vc.statusMetric.delete(labelValues...)
		vc.sizeMetric.DeleteLabelValues(labelValues...)
		vc.sizeUsedMetric.DeleteLabelValues(labelValues...)
	})
	if retracted > 0 {
		vc.logger.Infof("Retracted metrics of %v volumes no longer reported", retracted)
	}
}

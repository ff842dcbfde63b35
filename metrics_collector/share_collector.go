package metricscollector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/longhorn/dsm-exporter/types"
)

type ShareCollector struct {
	*baseCollector

	sizeUsedMetric  *prometheus.GaugeVec
	sizeQuotaMetric *prometheus.GaugeVec

	series *seriesTracker
}

func NewShareCollector(logger logrus.FieldLogger) *ShareCollector {
	sc := &ShareCollector{
		baseCollector:   newBaseCollector(subsystemShare, logger),
		sizeUsedMetric:  newGaugeVec(MetricShareSizeUsed, "Used size of share in bytes", shareIDLabel, shareNameLabel),
		sizeQuotaMetric: newGaugeVec(MetricShareSizeQuota, "Quota of share in bytes", shareIDLabel, shareNameLabel),
		series:          newSeriesTracker(),
	}
	sc.add(sc.sizeUsedMetric, sc.sizeQuotaMetric)
	return sc
}

func (sc *ShareCollector) Update(shares []types.Share) {
	for _, s := range shares {
		sc.sizeUsedMetric.WithLabelValues(s.UUID, s.Name).Set(MegabytesToBytes(s.QuotaUsed))
		sc.sizeQuotaMetric.WithLabelValues(s.UUID, s.Name).Set(MegabytesToBytes(s.Quota))
		sc.series.observe(s.UUID, s.Name)
	}

	retracted := sc.series.sweep(func(labelValues []string) {
		sc.sizeUsedMetric.DeleteLabelValues(labelValues...)
		sc.sizeQuotaMetric.DeleteLabelValues(labelValues...)
	})
	if retracted > 0 {
		sc.logger.Infof("Retracted metrics of %v shares no longer reported", retracted)
	}
}

package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/longhorn/dsm-exporter/types"
)

// PollCollector reports how the poll loop is doing.
type PollCollector struct {
	logger logrus.FieldLogger

	cyclesMetric      metricInfo
	durationMetric    metricInfo
	lastSuccessMetric metricInfo

	lock        sync.RWMutex
	cycles      uint64
	duration    time.Duration
	lastSuccess time.Time
}

func NewPollCollector(logger logrus.FieldLogger) *PollCollector {
	pc := &PollCollector{
		logger: logger.WithField("collector", "poll"),
	}

	pc.cyclesMetric = metricInfo{
		Desc: prometheus.NewDesc(
			prometheus.BuildFQName(types.MetricPrefix, subsystemExporter, "poll_cycles_total"),
			"Number of completed poll cycles",
			nil,
			nil,
		),
		Type: prometheus.CounterValue,
	}

	pc.durationMetric = metricInfo{
		Desc: prometheus.NewDesc(
			prometheus.BuildFQName(types.MetricPrefix, subsystemExporter, "poll_duration_seconds"),
			"Duration of the last completed poll cycle in seconds",
			nil,
			nil,
		),
		Type: prometheus.GaugeValue,
	}

	pc.lastSuccessMetric = metricInfo{
		Desc: prometheus.NewDesc(
			prometheus.BuildFQName(types.MetricPrefix, subsystemExporter, "last_poll_success_timestamp_seconds"),
			"Unix time of the end of the last completed poll cycle",
			nil,
			nil,
		),
		Type: prometheus.GaugeValue,
	}

	return pc
}

// ObserveCycle records a completed cycle that took duration and ended at
// finished.
func (pc *PollCollector) ObserveCycle(duration time.Duration, finished time.Time) {
	pc.lock.Lock()
	defer pc.lock.Unlock()

	pc.cycles++
	pc.duration = duration
	pc.lastSuccess = finished
}

func (pc *PollCollector) Cycles() uint64 {
	pc.lock.RLock()
	defer pc.lock.RUnlock()
	return pc.cycles
}

func (pc *PollCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- pc.cyclesMetric.Desc
	ch <- pc.durationMetric.Desc
	ch <- pc.lastSuccessMetric.Desc
}

func (pc *PollCollector) Collect(ch chan<- prometheus.Metric) {
	pc.lock.RLock()
	defer pc.lock.RUnlock()

	ch <- prometheus.MustNewConstMetric(pc.cyclesMetric.Desc, pc.cyclesMetric.Type, float64(pc.cycles))
	if pc.cycles == 0 {
		return
	}
	ch <- prometheus.MustNewConstMetric(pc.durationMetric.Desc, pc.durationMetric.Type, pc.duration.Seconds())
	ch <- prometheus.MustNewConstMetric(pc.lastSuccessMetric.Desc, pc.lastSuccessMetric.Type, float64(pc.lastSuccess.UnixNano())/1e9)
}

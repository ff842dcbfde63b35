package metricscollector

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

type baseCollector struct {
	logger     logrus.FieldLogger
	collectors []prometheus.Collector
}

func newBaseCollector(name string, logger logrus.FieldLogger) *baseCollector {
	return &baseCollector{
		logger: logger.WithField("collector", name),
	}
}

func (bc *baseCollector) add(collectors ...prometheus.Collector) {
	bc.collectors = append(bc.collectors, collectors...)
}

func (bc *baseCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range bc.collectors {
		c.Describe(ch)
	}
}

func (bc *baseCollector) Collect(ch chan<- prometheus.Metric) {
	for _, c := range bc.collectors {
		c.Collect(ch)
	}
}

// seriesTracker remembers the label sets published by the previous update so
// the ones that disappear can be retracted.
type seriesTracker struct {
	previous map[string][]string
	current  map[string][]string
}

func newSeriesTracker() *seriesTracker {
	return &seriesTracker{
		previous: map[string][]string{},
		current:  map[string][]string{},
	}
}

func seriesKey(labelValues []string) string {
	return strings.Join(labelValues, "\xff")
}

func (t *seriesTracker) observe(labelValues ...string) {
	t.current[seriesKey(labelValues)] = labelValues
}

// sweep calls retract for every label set seen in the previous update but
// not in the current one, then starts a new update.
func (t *seriesTracker) sweep(retract func(labelValues []string)) int {
	count := 0
	for key, labelValues := range t.previous {
		if _, ok := t.current[key]; ok {
			continue
		}
		retract(labelValues)
		count++
	}
	t.previous = t.current
	t.current = map[string][]string{}
	return count
}

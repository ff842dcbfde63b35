package metricscollector

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// stateSet is a metric restricted to one of a fixed set of states. Every
// state gets its own series, carrying a label named after the metric, and
// only the current state has the value 1. The series of one label set are
// built together at collect time, so a scrape never sees a partial switch.
type stateSet struct {
	metric metricInfo
	states []string

	lock    sync.RWMutex
	current map[string]stateEntry
}

type stateEntry struct {
	labelValues []string
	state       string
}

func newStateSet(name, help string, states []string, labels ...string) *stateSet {
	return &stateSet{
		metric: metricInfo{
			Desc: prometheus.NewDesc(
				fqName(name),
				help,
				append(append([]string{}, labels...), fqName(name)),
				nil,
			),
			Type: prometheus.GaugeValue,
		},
		states:  states,
		current: map[string]stateEntry{},
	}
}

// set publishes state for labelValues. The caller is expected to pass a
// state from the allowed set; anything else marks every state as 0.
func (s *stateSet) set(state string, labelValues ...string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.current[seriesKey(labelValues)] = stateEntry{
		labelValues: append([]string{}, labelValues...),
		state:       state,
	}
}

func (s *stateSet) delete(labelValues ...string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.current, seriesKey(labelValues))
}

func (s *stateSet) Describe(ch chan<- *prometheus.Desc) {
	ch <- s.metric.Desc
}

func (s *stateSet) Collect(ch chan<- prometheus.Metric) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	for _, entry := range s.current {
		for _, st := range s.states {
			value := 0.0
			if st == entry.state {
				value = 1
			}
			ch <- prometheus.MustNewConstMetric(s.metric.Desc, s.metric.Type, value,
				append(append([]string{}, entry.labelValues...), st)...)
		}
	}
}

// infoMetric publishes one series with value 1 whose labels carry static
// descriptive values.
type infoMetric struct {
	metric metricInfo
	labels []string

	lock    sync.RWMutex
	current []string
}

func newInfoMetric(name, help string, labels ...string) *infoMetric {
	return &infoMetric{
		metric: metricInfo{
			Desc: prometheus.NewDesc(fqName(name+"_info"), help, labels, nil),
			Type: prometheus.GaugeValue,
		},
		labels: labels,
	}
}

// set replaces the published series when any value changes.
func (m *infoMetric) set(values map[string]string) {
	labelValues := make([]string, 0, len(m.labels))
	for _, l := range m.labels {
		labelValues = append(labelValues, values[l])
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	m.current = labelValues
}

func (m *infoMetric) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.metric.Desc
}

func (m *infoMetric) Collect(ch chan<- prometheus.Metric) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if m.current == nil {
		return
	}
	ch <- prometheus.MustNewConstMetric(m.metric.Desc, m.metric.Type, 1, m.current...)
}

package monitoring

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// InitMonitoringSystem registers the exporter self metrics with reg.
func InitMonitoringSystem(logger logrus.FieldLogger, reg prometheus.Registerer) (*PollCollector, error) {
	pc := NewPollCollector(logger)
	if err := reg.Register(pc); err != nil {
		return nil, errors.Wrap(err, "failed to register poll collector")
	}
	return pc, nil
}

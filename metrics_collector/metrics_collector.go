package metricscollector

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/longhorn/dsm-exporter/types"
)

// MetricsCollector publishes each snapshot into the registry it was
// created with.
type MetricsCollector struct {
	logger logrus.FieldLogger

	system  *SystemCollector
	volumes *VolumeCollector
	disks   *DiskCollector
	shares  *ShareCollector
}

func NewMetricsCollector(logger logrus.FieldLogger, reg prometheus.Registerer) (*MetricsCollector, error) {
	logger.Info("Initializing metrics collector system")

	mc := &MetricsCollector{
		logger:  logger,
		system:  NewSystemCollector(logger),
		volumes: NewVolumeCollector(logger),
		disks:   NewDiskCollector(logger),
		shares:  NewShareCollector(logger),
	}

	collectors := map[string]prometheus.Collector{
		subsystemSystem: mc.system,
		subsystemVolume: mc.volumes,
		subsystemDisk:   mc.disks,
		subsystemShare:  mc.shares,
	}
	for _, name := range []string{subsystemSystem, subsystemVolume, subsystemDisk, subsystemShare} {
		if err := reg.Register(collectors[name]); err != nil {
			return nil, errors.Wrapf(err, "failed to register %v collector", name)
		}
	}
	return mc, nil
}

// Update must not be called concurrently. Scrapes may run while it does.
func (mc *MetricsCollector) Update(snapshot *types.Snapshot) {
	mc.system.Update(snapshot.Identity, snapshot.Utilization)
	mc.volumes.Update(snapshot.Volumes)
	mc.disks.Update(snapshot.Disks)
	mc.shares.Update(snapshot.Shares)
}

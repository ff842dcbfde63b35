package metricscollector

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/longhorn/dsm-exporter/types"
)

const (
	subsystemSystem = "system"
	subsystemVolume = "volume"
	subsystemDisk   = "disk"
	subsystemShare  = "share"

	volumeIDLabel  = "Volume_ID"
	diskIDLabel    = "Disk_ID"
	diskNameLabel  = "name"
	diskModelLabel = "model"
	shareIDLabel   = "Share_ID"
	shareNameLabel = "Share_Name"

	infoModelLabel   = "model"
	infoRAMLabel     = "amount_of_ram"
	infoSerialLabel  = "serial_number"
	infoVersionLabel = "dsm_version"

	// Share usage is reported in binary megabytes.
	bytesPerMegabyte = 1048576
)

// Published metric names, without the namespace.
const (
	MetricCPULoad         = "cpu_load"
	MetricTemperature     = "temperature"
	MetricUptime          = "uptime"
	MetricMemoryUsed      = "memory_used"
	MetricMemoryTotal     = "memory_total"
	MetricNetworkUp       = "network_up"
	MetricNetworkDown     = "network_down"
	MetricModel           = "model"
	MetricVolumeStatus    = "volume_status"
	MetricVolumeSize      = "volume_size"
	MetricVolumeSizeUsed  = "volume_size_used"
	MetricDiskSmartStatus = "disk_smart_status"
	MetricDiskStatus      = "disk_status"
	MetricDiskTemp        = "disk_temp"
	MetricShareSizeUsed   = "share_size_used"
	MetricShareSizeQuota  = "share_size_quota"
)

func fqName(name string) string {
	return prometheus.BuildFQName(types.MetricPrefix, "", name)
}

func newGaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: types.MetricPrefix,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

type metricInfo struct {
	Desc *prometheus.Desc
	Type prometheus.ValueType
}

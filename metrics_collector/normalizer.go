package metricscollector

import (
	"math"
	"strconv"
	"strings"

	"github.com/longhorn/dsm-exporter/types"
)

// FallbackState is published for any status outside the allowed states.
const FallbackState = "error"

const scrubbingSuffix = "scrubbing"

// ValidateEnum returns raw when it is one of allowed, fallback otherwise.
func ValidateEnum(raw string, allowed []string, fallback string) string {
	for _, state := range allowed {
		if raw == state {
			return raw
		}
	}
	return fallback
}

// NormalizeVolumeStatus maps every status ending in "scrubbing", such as
// "data_scrubbing", to the scrubbing state.
func NormalizeVolumeStatus(raw string) string {
	if strings.HasSuffix(raw, scrubbingSuffix) {
		return string(types.VolumeStatusScrubbing)
	}
	return ValidateEnum(raw, types.VolumeStatusList, FallbackState)
}

func NormalizeDiskStatus(raw string) string {
	return ValidateEnum(raw, types.DiskStatusList, FallbackState)
}

// MemoryUsedBytes converts a usage percentage of total into bytes. It
// returns false when total is not positive, which DSM uses to signal that
// the reading is unavailable.
func MemoryUsedBytes(percentage float64, total int64) (float64, bool) {
	if total <= 0 {
		return 0, false
	}
	return math.Round(percentage / 100 * float64(total)), true
}

func MegabytesToBytes(mb float64) float64 {
	return mb * bytesPerMegabyte
}

// SystemValues holds the device level values of one cycle. Nil fields are
// not published and keep whatever value was published before.
type SystemValues struct {
	CPULoad float64
	Uptime  float64

	Temperature *float64
	MemoryUsed  *float64
	MemoryTotal *float64
	NetworkUp   *float64
	NetworkDown *float64

	Info map[string]string
}

func NormalizeSystem(identity types.DeviceIdentity, u types.Utilization) SystemValues {
	values := SystemValues{
		CPULoad:     u.CPULoad,
		Temperature: u.Temperature,
		Uptime:      float64(u.Uptime),
		NetworkUp:   int64ToFloat(u.NetworkUp),
		NetworkDown: int64ToFloat(u.NetworkDown),
		Info: map[string]string{
			infoModelLabel:   identity.Model,
			infoRAMLabel:     strconv.FormatInt(identity.RAM, 10),
			infoSerialLabel:  identity.Serial,
			infoVersionLabel: identity.VersionString,
		},
	}

	if used, ok := MemoryUsedBytes(u.MemoryRealUsage, u.MemorySize); ok {
		total := float64(u.MemorySize)
		values.MemoryUsed = &used
		values.MemoryTotal = &total
	}
	return values
}

// Values returns the published scalar values keyed by metric name.
func (v SystemValues) Values() map[string]float64 {
	values := map[string]float64{
		MetricCPULoad: v.CPULoad,
		MetricUptime:  v.Uptime,
	}
	optional := map[string]*float64{
		MetricTemperature: v.Temperature,
		MetricMemoryUsed:  v.MemoryUsed,
		MetricMemoryTotal: v.MemoryTotal,
		MetricNetworkUp:   v.NetworkUp,
		MetricNetworkDown: v.NetworkDown,
	}
	for name, value := range optional {
		if value != nil {
			values[name] = *value
		}
	}
	return values
}

func int64ToFloat(v *int64) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

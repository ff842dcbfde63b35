package metricscollector

import (
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longhorn/dsm-exporter/types"
	"github.com/longhorn/dsm-exporter/util"
)

type series map[string]float64

// gather returns every published series keyed by metric name and then by
// its sorted label pairs.
func gather(t *testing.T, reg *prometheus.Registry) map[string]series {
	mfs, err := reg.Gather()
	require.NoError(t, err)

	result := map[string]series{}
	for _, mf := range mfs {
		s := series{}
		for _, m := range mf.GetMetric() {
			pairs := []string{}
			for _, lp := range m.GetLabel() {
				pairs = append(pairs, lp.GetName()+"="+lp.GetValue())
			}
			sort.Strings(pairs)
			s[strings.Join(pairs, ",")] = m.GetGauge().GetValue()
		}
		result[mf.GetName()] = s
	}
	return result
}

// entities counts the distinct label sets of a metric once the state label
// of enum metrics is left out.
func entities(s series, stateLabel string) int {
	keys := map[string]struct{}{}
	for key := range s {
		kept := []string{}
		for _, pair := range strings.Split(key, ",") {
			if stateLabel != "" && strings.HasPrefix(pair, stateLabel+"=") {
				continue
			}
			kept = append(kept, pair)
		}
		keys[strings.Join(kept, ",")] = struct{}{}
	}
	return len(keys)
}

func newTestCollector(t *testing.T) (*MetricsCollector, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	mc, err := NewMetricsCollector(logrus.StandardLogger(), reg)
	require.NoError(t, err)
	return mc, reg
}

func newSnapshot() *types.Snapshot {
	return &types.Snapshot{
		Identity: types.DeviceIdentity{
			Model:         "DS918+",
			RAM:           4096,
			Serial:        "1780PDN123456",
			VersionString: "DSM 7.1.1-42962 Update 6",
		},
		Utilization: types.Utilization{
			CPULoad:         12,
			MemoryRealUsage: 50,
			MemorySize:      2000000000,
			NetworkUp:       util.Int64Ptr(500),
			NetworkDown:     util.Int64Ptr(1500),
			Uptime:          3600,
			Temperature:     util.Float64Ptr(41),
		},
		Volumes: []types.Volume{
			{ID: "volume_1", Status: "normal", TotalSize: 2000, UsedSize: 1000},
			{ID: "volume_2", Status: "degraded", TotalSize: 3000, UsedSize: 10},
			{ID: "volume_3", Status: "repairing_scrubbing", TotalSize: 4000, UsedSize: 20},
		},
		Disks: []types.Disk{
			{ID: "sata1", Name: "Drive 1", Model: "WD40EFRX", SmartStatus: "normal", Status: "normal", Temperature: 35},
			{ID: "sata2", Name: "Drive 2", Model: "WD40EFRX", SmartStatus: "normal", Status: "crashed", Temperature: 38},
		},
		Shares: []types.Share{
			{UUID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8", Name: "data", QuotaUsed: 1024, Quota: 2048},
		},
	}
}

func TestValidateEnum(t *testing.T) {
	allowed := []string{"normal", "error"}
	tests := map[string]string{
		"normal":   "normal",
		"error":    "error",
		"crashed":  "error",
		"NORMAL":   "error",
		"":         "error",
		"normal ":  "error",
		"scrubbed": "error",
	}

	assert := assert.New(t)
	for raw, expected := range tests {
		assert.Equal(expected, ValidateEnum(raw, allowed, FallbackState), "raw %q", raw)
	}
	assert.Equal("unknown", ValidateEnum("crashed", allowed, "unknown"))
}

func TestNormalizeVolumeStatus(t *testing.T) {
	tests := map[string]string{
		"normal":              "normal",
		"attention":           "attention",
		"error":               "error",
		"scrubbing":           "scrubbing",
		"data_scrubbing":      "scrubbing",
		"repairing_scrubbing": "scrubbing",
		"degraded":            "error",
		"crashed":             "error",
		"scrubbing_paused":    "error",
		"":                    "error",
	}

	assert := assert.New(t)
	for raw, expected := range tests {
		assert.Equal(expected, NormalizeVolumeStatus(raw), "raw %q", raw)
	}
}

func TestNormalizeDiskStatus(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("normal", NormalizeDiskStatus("normal"))
	assert.Equal("error", NormalizeDiskStatus("crashed"))
	assert.Equal("error", NormalizeDiskStatus("failing"))
}

func TestMemoryUsedBytes(t *testing.T) {
	assert := assert.New(t)

	used, ok := MemoryUsedBytes(50, 2000000000)
	assert.True(ok)
	assert.Equal(float64(1000000000), used)

	used, ok = MemoryUsedBytes(33.3, 1000)
	assert.True(ok)
	assert.Equal(float64(333), used)

	_, ok = MemoryUsedBytes(50, 0)
	assert.False(ok)

	_, ok = MemoryUsedBytes(50, -1)
	assert.False(ok)
}

func TestMegabytesToBytes(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(float64(1073741824), MegabytesToBytes(1024))
	assert.Equal(float64(0), MegabytesToBytes(0))
}

func TestNormalizeSystem(t *testing.T) {
	assert := require.New(t)

	snapshot := newSnapshot()
	snapshot.Utilization.NetworkDown = nil
	values := NormalizeSystem(snapshot.Identity, snapshot.Utilization).Values()

	assert.Equal(map[string]float64{
		MetricCPULoad:     12,
		MetricTemperature: 41,
		MetricUptime:      3600,
		MetricMemoryUsed:  1000000000,
		MetricMemoryTotal: 2000000000,
		MetricNetworkUp:   500,
	}, values)
}

func TestSystemMetrics(t *testing.T) {
	assert := require.New(t)
	mc, reg := newTestCollector(t)

	mc.Update(newSnapshot())
	published := gather(t, reg)

	assert.Equal(series{"": 12}, published["syno_cpu_load"])
	assert.Equal(series{"": 41}, published["syno_temperature"])
	assert.Equal(series{"": 3600}, published["syno_uptime"])
	assert.Equal(series{"": 1000000000}, published["syno_memory_used"])
	assert.Equal(series{"": 2000000000}, published["syno_memory_total"])
	assert.Equal(series{"": 500}, published["syno_network_up"])
	assert.Equal(series{"": 1500}, published["syno_network_down"])
	assert.Equal(series{
		"amount_of_ram=4096,dsm_version=DSM 7.1.1-42962 Update 6,model=DS918+,serial_number=1780PDN123456": 1,
	}, published["syno_model_info"])
}

func TestModelInfoReplacedOnUpgrade(t *testing.T) {
	assert := require.New(t)
	mc, reg := newTestCollector(t)

	snapshot := newSnapshot()
	mc.Update(snapshot)
	snapshot.Identity.VersionString = "DSM 7.2-64570"
	mc.Update(snapshot)

	info := gather(t, reg)["syno_model_info"]
	assert.Len(info, 1)
	for key := range info {
		assert.Contains(key, "dsm_version=DSM 7.2-64570")
	}
}

func TestMemoryNotPublishedWithoutTotal(t *testing.T) {
	assert := require.New(t)
	mc, reg := newTestCollector(t)

	snapshot := newSnapshot()
	snapshot.Utilization.MemorySize = 0
	mc.Update(snapshot)

	published := gather(t, reg)
	assert.NotContains(published, "syno_memory_used")
	assert.NotContains(published, "syno_memory_total")

	snapshot.Utilization.MemorySize = 2000000000
	mc.Update(snapshot)
	assert.Equal(series{"": 1000000000}, gather(t, reg)["syno_memory_used"])

	snapshot.Utilization.MemorySize = 0
	snapshot.Utilization.MemoryRealUsage = 90
	mc.Update(snapshot)
	assert.Equal(series{"": 1000000000}, gather(t, reg)["syno_memory_used"])
}

func TestTemperatureNotPublishedWhenAbsent(t *testing.T) {
	assert := require.New(t)
	mc, reg := newTestCollector(t)

	snapshot := newSnapshot()
	snapshot.Utilization.Temperature = nil
	mc.Update(snapshot)
	assert.NotContains(gather(t, reg), "syno_temperature")

	snapshot.Utilization.Temperature = util.Float64Ptr(0)
	mc.Update(snapshot)
	assert.Equal(series{"": 0}, gather(t, reg)["syno_temperature"])
}

func TestNetworkUnchangedWhenAbsent(t *testing.T) {
	assert := require.New(t)
	mc, reg := newTestCollector(t)

	snapshot := newSnapshot()
	snapshot.Utilization.NetworkDown = nil
	mc.Update(snapshot)

	published := gather(t, reg)
	assert.Equal(series{"": 500}, published["syno_network_up"])
	assert.NotContains(published, "syno_network_down")

	snapshot.Utilization.NetworkUp = nil
	snapshot.Utilization.NetworkDown = util.Int64Ptr(0)
	mc.Update(snapshot)

	published = gather(t, reg)
	assert.Equal(series{"": 500}, published["syno_network_up"])
	assert.Equal(series{"": 0}, published["syno_network_down"])
}

func TestEnumStates(t *testing.T) {
	assert := require.New(t)
	mc, reg := newTestCollector(t)

	mc.Update(newSnapshot())
	published := gather(t, reg)

	assert.Equal(series{
		"Volume_ID=volume_1,syno_volume_status=attention": 0,
		"Volume_ID=volume_1,syno_volume_status=error":     0,
		"Volume_ID=volume_1,syno_volume_status=normal":    1,
		"Volume_ID=volume_1,syno_volume_status=scrubbing": 0,
		"Volume_ID=volume_2,syno_volume_status=attention": 0,
		"Volume_ID=volume_2,syno_volume_status=error":     1,
		"Volume_ID=volume_2,syno_volume_status=normal":    0,
		"Volume_ID=volume_2,syno_volume_status=scrubbing": 0,
		"Volume_ID=volume_3,syno_volume_status=attention": 0,
		"Volume_ID=volume_3,syno_volume_status=error":     0,
		"Volume_ID=volume_3,syno_volume_status=normal":    0,
		"Volume_ID=volume_3,syno_volume_status=scrubbing": 1,
	}, published["syno_volume_status"])

	assert.Equal(float64(1), published["syno_disk_status"]["Disk_ID=sata2,model=WD40EFRX,name=Drive 2,syno_disk_status=error"])
	assert.Equal(float64(0), published["syno_disk_status"]["Disk_ID=sata2,model=WD40EFRX,name=Drive 2,syno_disk_status=normal"])
	assert.Equal(float64(1), published["syno_disk_smart_status"]["Disk_ID=sata1,model=WD40EFRX,name=Drive 1,syno_disk_smart_status=normal"])
}

func TestEnumStateSwitchIsAtomic(t *testing.T) {
	assert := require.New(t)
	mc, reg := newTestCollector(t)

	mc.Update(newSnapshot())

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		snapshot := newSnapshot()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			snapshot.Volumes[0].Status = "normal"
			snapshot.Identity.VersionString = "DSM 7.1"
			if i%2 == 1 {
				snapshot.Volumes[0].Status = "repairing_scrubbing"
				snapshot.Identity.VersionString = "DSM 7.2"
			}
			mc.Update(snapshot)
		}
	}()

	for i := 0; i < 300; i++ {
		published := gather(t, reg)

		sum := 0.0
		for key, value := range published["syno_volume_status"] {
			if strings.HasPrefix(key, "Volume_ID=volume_1,") {
				sum += value
			}
		}
		assert.Equal(float64(1), sum, "scrape %v", i)
		assert.Len(published["syno_model_info"], 1, "scrape %v", i)
	}
	close(done)
	wg.Wait()
}

func TestShareConversion(t *testing.T) {
	assert := require.New(t)
	mc, reg := newTestCollector(t)

	mc.Update(newSnapshot())
	published := gather(t, reg)

	key := "Share_ID=6ba7b810-9dad-11d1-80b4-00c04fd430c8,Share_Name=data"
	assert.Equal(series{key: 1073741824}, published["syno_share_size_used"])
	assert.Equal(series{key: 2147483648}, published["syno_share_size_quota"])
}

func TestIdempotentUpdate(t *testing.T) {
	assert := require.New(t)
	mc, reg := newTestCollector(t)

	mc.Update(newSnapshot())
	first := gather(t, reg)
	mc.Update(newSnapshot())
	second := gather(t, reg)

	assert.Equal(first, second)
}

func TestLabelStability(t *testing.T) {
	assert := require.New(t)
	mc, reg := newTestCollector(t)

	snapshot := newSnapshot()
	mc.Update(snapshot)
	snapshot.Volumes[0].UsedSize = 1500
	mc.Update(snapshot)

	published := gather(t, reg)
	assert.Len(published["syno_volume_size_used"], 3)
	assert.Equal(float64(1500), published["syno_volume_size_used"]["Volume_ID=volume_1"])
}

func TestStaleSeriesRetracted(t *testing.T) {
	assert := require.New(t)
	mc, reg := newTestCollector(t)

	snapshot := newSnapshot()
	mc.Update(snapshot)

	snapshot.Volumes = snapshot.Volumes[:1]
	snapshot.Disks[1].Name = "Cache 1"
	snapshot.Shares = nil
	mc.Update(snapshot)

	published := gather(t, reg)
	assert.Equal(1, entities(published["syno_volume_status"], "syno_volume_status"))
	assert.Len(published["syno_volume_size"], 1)
	assert.Len(published["syno_volume_size_used"], 1)

	assert.Len(published["syno_disk_temp"], 2)
	assert.Contains(published["syno_disk_temp"], "Disk_ID=sata2,model=WD40EFRX,name=Cache 1")
	assert.NotContains(published["syno_disk_temp"], "Disk_ID=sata2,model=WD40EFRX,name=Drive 2")
	assert.Equal(2, entities(published["syno_disk_status"], "syno_disk_status"))

	assert.NotContains(published, "syno_share_size_used")
	assert.NotContains(published, "syno_share_size_quota")
}

func TestPublishedEntityCounts(t *testing.T) {
	assert := require.New(t)
	mc, reg := newTestCollector(t)

	mc.Update(newSnapshot())
	published := gather(t, reg)

	for name, stateLabel := range map[string]string{
		"syno_volume_status":    "syno_volume_status",
		"syno_volume_size":      "",
		"syno_volume_size_used": "",
	} {
		assert.Equal(3, entities(published[name], stateLabel), name)
	}
	for name, stateLabel := range map[string]string{
		"syno_disk_smart_status": "syno_disk_smart_status",
		"syno_disk_status":       "syno_disk_status",
		"syno_disk_temp":         "",
	} {
		assert.Equal(2, entities(published[name], stateLabel), name)
	}
	assert.Len(published["syno_share_size_used"], 1)
	assert.Len(published["syno_share_size_quota"], 1)
}

func TestRegisterTwiceFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetricsCollector(logrus.StandardLogger(), reg)
	require.NoError(t, err)

	_, err = NewMetricsCollector(logrus.StandardLogger(), reg)
	require.Error(t, err)
}

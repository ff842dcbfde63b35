package types

// DeviceIdentity is the static description of the DiskStation.
type DeviceIdentity struct {
	Model         string
	RAM           int64 // MB
	Serial        string
	VersionString string
}

// Utilization is a point-in-time read of the device load.
type Utilization struct {
	// CPULoad is on a 0-100 scale.
	CPULoad float64
	// MemoryRealUsage is a percentage of MemorySize.
	MemoryRealUsage float64
	MemorySize      int64

	// NetworkUp and NetworkDown are nil when the device did not report a
	// value for this interval.
	NetworkUp   *int64
	NetworkDown *int64

	Uptime int64 // seconds
	// Temperature is nil on models without a sensor, such as virtual DSM.
	Temperature *float64
}

type Volume struct {
	ID        string
	Status    string
	TotalSize int64
	UsedSize  int64
}

type Disk struct {
	ID          string
	Name        string
	Model       string
	SmartStatus string
	Status      string
	Temperature float64
}

// Share quotas are reported by DSM in binary megabytes.
type Share struct {
	UUID      string
	Name      string
	QuotaUsed float64
	Quota     float64
}

// Snapshot is everything fetched from the device in one poll cycle.
type Snapshot struct {
	Identity    DeviceIdentity
	Utilization Utilization
	Volumes     []Volume
	Disks       []Disk
	Shares      []Share
}

package types

const (
	DefaultListenAddress  = ":9999"
	DefaultPollInterval   = 15 // seconds
	MinimalPollInterval   = 1  // seconds
	DefaultRequestTimeout = 30 // seconds

	MetricPrefix = "syno"

	EnvHost           = "SYNOLOGY_URL"
	EnvPort           = "SYNOLOGY_PORT"
	EnvUsername       = "SYNOLOGY_USER"
	EnvPassword       = "SYNOLOGY_PASSWORD"
	EnvUseTLS         = "SYNOLOGY_HTTPS"
	EnvVerifyTLS      = "SYNOLOGY_VERIFY_SSL"
	EnvPollInterval   = "FREQUENCY"
	EnvRequestTimeout = "SYNOLOGY_REQUEST_TIMEOUT"
	EnvListenAddress  = "EXPORTER_LISTEN"
	EnvConfigFile     = "EXPORTER_CONFIG"
)

type VolumeStatus string

const (
	VolumeStatusNormal    = VolumeStatus("normal")
	VolumeStatusAttention = VolumeStatus("attention")
	VolumeStatusError     = VolumeStatus("error")
	VolumeStatusScrubbing = VolumeStatus("scrubbing")
)

type DiskStatus string

const (
	DiskStatusNormal = DiskStatus("normal")
	DiskStatusError  = DiskStatus("error")
)

var (
	VolumeStatusList = []string{
		string(VolumeStatusNormal),
		string(VolumeStatusAttention),
		string(VolumeStatusError),
		string(VolumeStatusScrubbing),
	}

	DiskStatusList = []string{
		string(DiskStatusNormal),
		string(DiskStatusError),
	}
)

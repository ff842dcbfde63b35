package client

import (
	"context"
)

type Utilization struct {
	CPU     *UtilizationCPU      `json:"cpu"`
	Memory  *UtilizationMemory   `json:"memory"`
	Network []UtilizationNetwork `json:"network"`
}

type UtilizationCPU struct {
	UserLoad   float64 `json:"user_load"`
	SystemLoad float64 `json:"system_load"`
	OtherLoad  float64 `json:"other_load"`
}

// UtilizationMemory reports sizes in KB.
type UtilizationMemory struct {
	RealUsage  *float64 `json:"real_usage"`
	MemorySize *int64   `json:"memory_size"`
	TotalReal  int64    `json:"total_real"`
	AvailReal  int64    `json:"avail_real"`
}

// UtilizationNetwork reports throughput in bytes per second. The device
// named "total" aggregates every interface.
type UtilizationNetwork struct {
	Device string `json:"device"`
	Rx     *int64 `json:"rx"`
	Tx     *int64 `json:"tx"`
}

type UtilizationClient struct {
	client *Client
}

type UtilizationOperations interface {
	Get(ctx context.Context) (*Utilization, error)
}

func newUtilizationClient(client *Client) *UtilizationClient {
	return &UtilizationClient{
		client: client,
	}
}

func (c *UtilizationClient) Get(ctx context.Context) (*Utilization, error) {
	resp := &Utilization{}
	err := c.client.doEntry(ctx, ApiUtilization, 1, "get", nil, resp)
	return resp, err
}

package client

import (
	"context"
)

type Information struct {
	Model           string   `json:"model"`
	RAM             int64    `json:"ram"`
	Serial          string   `json:"serial"`
	Temperature     *float64 `json:"temperature"`
	TemperatureWarn bool     `json:"temperature_warn"`
	Uptime          int64    `json:"uptime"`
	Version         string   `json:"version"`
	VersionString   string   `json:"version_string"`
}

type InformationClient struct {
	client *Client
}

type InformationOperations interface {
	Get(ctx context.Context) (*Information, error)
}

func newInformationClient(client *Client) *InformationClient {
	return &InformationClient{
		client: client,
	}
}

func (c *InformationClient) Get(ctx context.Context) (*Information, error) {
	resp := &Information{}
	err := c.client.doEntry(ctx, ApiInformation, 2, "getinfo", nil, resp)
	return resp, err
}

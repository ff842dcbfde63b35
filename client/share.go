package client

import (
	"context"
	"net/url"
)

const shareAdditional = `["hidden","share_quota"]`

// Share quotas are reported in MB. ShareQuotaUsed is absent for shares
// without usage accounting, such as external or unmounted ones.
type Share struct {
	UUID           string   `json:"uuid"`
	Name           string   `json:"name"`
	VolPath        string   `json:"vol_path"`
	Hidden         bool     `json:"hidden"`
	ShareQuotaUsed *float64 `json:"share_quota_used"`
	QuotaValue     float64  `json:"quota_value"`
}

type ShareCollection struct {
	Shares []Share `json:"shares"`
	Total  int     `json:"total"`
}

type ShareClient struct {
	client *Client
}

type ShareOperations interface {
	List(ctx context.Context) (*ShareCollection, error)
}

func newShareClient(client *Client) *ShareClient {
	return &ShareClient{
		client: client,
	}
}

func (c *ShareClient) List(ctx context.Context) (*ShareCollection, error) {
	params := url.Values{}
	params.Set("shareType", "all")
	params.Set("additional", shareAdditional)

	resp := &ShareCollection{}
	err := c.client.doEntry(ctx, ApiShare, 1, "list", params, resp)
	return resp, err
}

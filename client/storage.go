package client

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/longhorn/dsm-exporter/util"
)

// Size is a byte count that DSM encodes either as a number or as a string.
type Size int64

func (s *Size) UnmarshalJSON(data []byte) error {
	var raw interface{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		*s = 0
		return nil
	}
	v, err := util.ConvertSize(raw)
	if err != nil {
		return err
	}
	*s = Size(v)
	return nil
}

type Storage struct {
	Volumes []StorageVolume `json:"volumes"`
	Disks   []StorageDisk   `json:"disks"`
}

type StorageVolume struct {
	ID     string            `json:"id"`
	Status string            `json:"status"`
	Size   StorageVolumeSize `json:"size"`
}

type StorageVolumeSize struct {
	Total Size `json:"total"`
	Used  Size `json:"used"`
}

type StorageDisk struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Model       string  `json:"model"`
	SmartStatus string  `json:"smart_status"`
	Status      string  `json:"status"`
	Temp        float64 `json:"temp"`
}

type StorageClient struct {
	client *Client
}

type StorageOperations interface {
	Get(ctx context.Context) (*Storage, error)
}

func newStorageClient(client *Client) *StorageClient {
	return &StorageClient{
		client: client,
	}
}

func (c *StorageClient) Get(ctx context.Context) (*Storage, error) {
	resp := &Storage{}
	err := c.client.doEntry(ctx, ApiStorage, 1, "load_info", nil, resp)
	return resp, err
}

package datastore

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/longhorn/dsm-exporter/client"
	"github.com/longhorn/dsm-exporter/types"
)

const (
	networkTotalDevice = "total"

	kilobyte = 1024
)

// DataStore fetches one consistent view of the DiskStation per call.
type DataStore struct {
	logger logrus.FieldLogger

	information client.InformationOperations
	utilization client.UtilizationOperations
	storage     client.StorageOperations
	share       client.ShareOperations
}

func NewDataStore(logger logrus.FieldLogger, c *client.Client) *DataStore {
	return NewDataStoreWithOperations(logger, c.Information, c.Utilization, c.Storage, c.Share)
}

func NewDataStoreWithOperations(
	logger logrus.FieldLogger,
	information client.InformationOperations,
	utilization client.UtilizationOperations,
	storage client.StorageOperations,
	share client.ShareOperations) *DataStore {

	return &DataStore{
		logger:      logger.WithField("component", "datastore"),
		information: information,
		utilization: utilization,
		storage:     storage,
		share:       share,
	}
}

// GetSnapshot runs the sub-fetches concurrently and returns either a
// complete snapshot or the first error. The returned error is always a
// client.FetchError.
func (s *DataStore) GetSnapshot(ctx context.Context) (*types.Snapshot, error) {
	var (
		info    *client.Information
		util    *client.Utilization
		storage *client.Storage
		shares  *client.ShareCollection
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		info, err = s.information.Get(gctx)
		return err
	})
	g.Go(func() (err error) {
		util, err = s.utilization.Get(gctx)
		return err
	})
	g.Go(func() (err error) {
		storage, err = s.storage.Get(gctx)
		return err
	})
	g.Go(func() (err error) {
		shares, err = s.share.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		if client.IsFetchError(err) {
			return nil, err
		}
		return nil, client.NewFetchError("", "", err)
	}

	snapshot := &types.Snapshot{}
	var err error
	if snapshot.Identity, err = toIdentity(info); err != nil {
		return nil, err
	}
	if snapshot.Utilization, err = toUtilization(info, util); err != nil {
		return nil, err
	}
	if snapshot.Volumes, err = toVolumes(storage); err != nil {
		return nil, err
	}
	if snapshot.Disks, err = toDisks(storage); err != nil {
		return nil, err
	}
	if snapshot.Shares, err = s.toShares(shares); err != nil {
		return nil, err
	}

	s.logger.Debugf("Fetched %v volumes, %v disks and %v shares",
		len(snapshot.Volumes), len(snapshot.Disks), len(snapshot.Shares))
	return snapshot, nil
}

func missingField(api, method, field string) error {
	return client.NewFetchError(api, method, errors.Errorf("required field %v is missing", field))
}

func toIdentity(info *client.Information) (types.DeviceIdentity, error) {
	identity := types.DeviceIdentity{}
	if info == nil {
		return identity, missingField(client.ApiInformation, "getinfo", "data")
	}
	if err := copier.Copy(&identity, info); err != nil {
		return identity, client.NewFetchError(client.ApiInformation, "getinfo", errors.Wrap(err, "failed to copy device information"))
	}
	return identity, nil
}

func toUtilization(info *client.Information, util *client.Utilization) (types.Utilization, error) {
	u := types.Utilization{
		Uptime:      info.Uptime,
		Temperature: info.Temperature,
	}
	if util == nil || util.CPU == nil {
		return u, missingField(client.ApiUtilization, "get", "cpu")
	}
	if util.Memory == nil || util.Memory.RealUsage == nil {
		return u, missingField(client.ApiUtilization, "get", "memory.real_usage")
	}
	if util.Memory.MemorySize == nil {
		return u, missingField(client.ApiUtilization, "get", "memory.memory_size")
	}

	u.CPULoad = util.CPU.UserLoad + util.CPU.SystemLoad + util.CPU.OtherLoad
	u.MemoryRealUsage = *util.Memory.RealUsage
	u.MemorySize = *util.Memory.MemorySize * kilobyte

	for _, n := range util.Network {
		if n.Device != networkTotalDevice {
			continue
		}
		u.NetworkUp = n.Tx
		u.NetworkDown = n.Rx
		break
	}
	return u, nil
}

func toVolumes(storage *client.Storage) ([]types.Volume, error) {
	if storage == nil {
		return nil, missingField(client.ApiStorage, "load_info", "data")
	}
	volumes := make([]types.Volume, 0, len(storage.Volumes))
	for _, v := range storage.Volumes {
		if strings.TrimSpace(v.ID) == "" {
			return nil, missingField(client.ApiStorage, "load_info", "volumes[].id")
		}
		volumes = append(volumes, types.Volume{
			ID:        v.ID,
			Status:    v.Status,
			TotalSize: int64(v.Size.Total),
			UsedSize:  int64(v.Size.Used),
		})
	}
	return volumes, nil
}

func toDisks(storage *client.Storage) ([]types.Disk, error) {
	disks := make([]types.Disk, 0, len(storage.Disks))
	for _, d := range storage.Disks {
		if strings.TrimSpace(d.ID) == "" {
			return nil, missingField(client.ApiStorage, "load_info", "disks[].id")
		}
		disks = append(disks, types.Disk{
			ID:          d.ID,
			Name:        d.Name,
			Model:       strings.TrimSpace(d.Model),
			SmartStatus: d.SmartStatus,
			Status:      d.Status,
			Temperature: d.Temp,
		})
	}
	return disks, nil
}

// toShares drops shares that report no usage, such as USB copies and
// unmounted encrypted shares.
func (s *DataStore) toShares(collection *client.ShareCollection) ([]types.Share, error) {
	if collection == nil {
		return nil, missingField(client.ApiShare, "list", "data")
	}
	shares := []types.Share{}
	for _, sh := range collection.Shares {
		if sh.ShareQuotaUsed == nil {
			s.logger.Debugf("Skipping share %v without usage accounting", sh.Name)
			continue
		}
		if strings.TrimSpace(sh.UUID) == "" {
			return nil, missingField(client.ApiShare, "list", "shares[].uuid")
		}
		shares = append(shares, types.Share{
			UUID:      canonicalShareID(sh.UUID),
			Name:      sh.Name,
			QuotaUsed: *sh.ShareQuotaUsed,
			Quota:     sh.QuotaValue,
		})
	}
	return shares, nil
}

// canonicalShareID lower-cases and hyphenates share ids that are UUIDs so a
// share keeps one series whatever form DSM reports it in.
func canonicalShareID(id string) string {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return id
	}
	return parsed.String()
}

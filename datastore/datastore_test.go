package datastore

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/longhorn/dsm-exporter/client"
	"github.com/longhorn/dsm-exporter/util"
	"github.com/longhorn/dsm-exporter/util/fake"

	. "gopkg.in/check.v1"
)

func Test(t *testing.T) { TestingT(t) }

type TestSuite struct {
	dsm *fake.DSM
	ds  *DataStore
}

var _ = Suite(&TestSuite{})

func (s *TestSuite) SetUpTest(c *C) {
	logrus.SetLevel(logrus.DebugLevel)

	s.dsm = fake.NewDSM()
	cli, err := client.NewClient(&client.ClientOpts{
		Host:     s.dsm.Host(),
		Port:     s.dsm.Port(),
		Username: fake.DefaultUsername,
		Password: fake.DefaultPassword,
		Timeout:  5 * time.Second,
	})
	c.Assert(err, IsNil)
	c.Assert(cli.Login(context.Background()), IsNil)

	s.ds = NewDataStore(logrus.StandardLogger(), cli)
}

func (s *TestSuite) TearDownTest(c *C) {
	s.dsm.Close()
}

func (s *TestSuite) TestGetSnapshot(c *C) {
	snapshot, err := s.ds.GetSnapshot(context.Background())
	c.Assert(err, IsNil)

	c.Assert(snapshot.Identity.Model, Equals, "DS918+")
	c.Assert(snapshot.Identity.RAM, Equals, int64(4096))
	c.Assert(snapshot.Identity.Serial, Equals, "1780PDN123456")
	c.Assert(snapshot.Identity.VersionString, Equals, "DSM 7.1.1-42962 Update 6")

	u := snapshot.Utilization
	c.Assert(u.CPULoad, Equals, float64(10))
	c.Assert(u.MemoryRealUsage, Equals, float64(50))
	c.Assert(u.MemorySize, Equals, int64(2000000000))
	c.Assert(u.NetworkDown, NotNil)
	c.Assert(*u.NetworkDown, Equals, int64(2048))
	c.Assert(u.NetworkUp, IsNil)
	c.Assert(u.Uptime, Equals, int64(123456))
	c.Assert(u.Temperature, NotNil)
	c.Assert(*u.Temperature, Equals, float64(42))

	c.Assert(snapshot.Volumes, HasLen, 3)
	c.Assert(snapshot.Volumes[0].ID, Equals, "volume_1")
	c.Assert(snapshot.Volumes[0].TotalSize, Equals, int64(2000000000000))
	c.Assert(snapshot.Volumes[2].Status, Equals, "data_scrubbing")

	c.Assert(snapshot.Disks, HasLen, 2)
	c.Assert(snapshot.Disks[1].ID, Equals, "sata2")
	c.Assert(snapshot.Disks[1].SmartStatus, Equals, "failing")
	c.Assert(snapshot.Disks[1].Temperature, Equals, float64(38))

	c.Assert(snapshot.Shares, HasLen, 1)
	c.Assert(snapshot.Shares[0].UUID, Equals, fake.ShareDataUUID)
	c.Assert(snapshot.Shares[0].QuotaUsed, Equals, float64(1024))
	c.Assert(snapshot.Shares[0].Quota, Equals, float64(2048))
}

func (s *TestSuite) TestGetSnapshotFetchFailure(c *C) {
	s.dsm.FailWith(client.ApiUtilization, 100)

	snapshot, err := s.ds.GetSnapshot(context.Background())
	c.Assert(err, NotNil)
	c.Assert(snapshot, IsNil)
	c.Assert(client.IsFetchError(err), Equals, true)
}

func (s *TestSuite) TestGetSnapshotMissingVolumeID(c *C) {
	s.dsm.SetResponse(client.ApiStorage, map[string]interface{}{
		"volumes": []interface{}{
			map[string]interface{}{"status": "normal", "size": map[string]interface{}{"total": "1", "used": "0"}},
		},
	})

	_, err := s.ds.GetSnapshot(context.Background())
	c.Assert(err, NotNil)
	c.Assert(client.IsFetchError(err), Equals, true)
	c.Assert(strings.Contains(err.Error(), "volumes[].id"), Equals, true)
}

func (s *TestSuite) TestGetSnapshotMissingMemory(c *C) {
	s.dsm.SetResponse(client.ApiUtilization, map[string]interface{}{
		"cpu": map[string]interface{}{"user_load": 1},
	})

	_, err := s.ds.GetSnapshot(context.Background())
	c.Assert(err, NotNil)
	c.Assert(client.IsFetchError(err), Equals, true)
}

type fakeOperations struct {
	info    *client.Information
	util    *client.Utilization
	storage *client.Storage
	shares  *client.ShareCollection
	err     error
}

func (f *fakeOperations) informationGet(ctx context.Context) (*client.Information, error) {
	return f.info, f.err
}

type informationFunc func(ctx context.Context) (*client.Information, error)

func (fn informationFunc) Get(ctx context.Context) (*client.Information, error) { return fn(ctx) }

type utilizationFunc func(ctx context.Context) (*client.Utilization, error)

func (fn utilizationFunc) Get(ctx context.Context) (*client.Utilization, error) { return fn(ctx) }

type storageFunc func(ctx context.Context) (*client.Storage, error)

func (fn storageFunc) Get(ctx context.Context) (*client.Storage, error) { return fn(ctx) }

type shareFunc func(ctx context.Context) (*client.ShareCollection, error)

func (fn shareFunc) List(ctx context.Context) (*client.ShareCollection, error) { return fn(ctx) }

func (f *fakeOperations) dataStore() *DataStore {
	return NewDataStoreWithOperations(logrus.StandardLogger(),
		informationFunc(f.informationGet),
		utilizationFunc(func(ctx context.Context) (*client.Utilization, error) { return f.util, nil }),
		storageFunc(func(ctx context.Context) (*client.Storage, error) { return f.storage, nil }),
		shareFunc(func(ctx context.Context) (*client.ShareCollection, error) { return f.shares, nil }),
	)
}

func newFakeOperations() *fakeOperations {
	return &fakeOperations{
		info: &client.Information{Model: "DS220+", RAM: 2048, Serial: "S1", VersionString: "DSM 7.2"},
		util: &client.Utilization{
			CPU: &client.UtilizationCPU{UserLoad: 1, SystemLoad: 2},
			Memory: &client.UtilizationMemory{
				RealUsage:  util.Float64Ptr(25),
				MemorySize: util.Int64Ptr(1024),
			},
			Network: []client.UtilizationNetwork{
				{Device: "eth0", Rx: util.Int64Ptr(1), Tx: util.Int64Ptr(1)},
				{Device: "total", Rx: util.Int64Ptr(10), Tx: util.Int64Ptr(20)},
			},
		},
		storage: &client.Storage{},
		shares:  &client.ShareCollection{},
	}
}

func TestConversions(t *testing.T) {
	assert := require.New(t)

	f := newFakeOperations()
	f.shares.Shares = []client.Share{
		{UUID: "6BA7B810-9DAD-11D1-80B4-00C04FD430C8", Name: "upper", ShareQuotaUsed: util.Float64Ptr(1)},
		{UUID: "{6ba7b811-9dad-11d1-80b4-00c04fd430c8}", Name: "braced", ShareQuotaUsed: util.Float64Ptr(2)},
		{UUID: "not-a-uuid", Name: "legacy", ShareQuotaUsed: util.Float64Ptr(3)},
		{UUID: "ignored", Name: "usb"},
	}

	snapshot, err := f.dataStore().GetSnapshot(context.Background())
	assert.NoError(err)
	assert.Equal(int64(1024*1024), snapshot.Utilization.MemorySize)
	assert.Equal(float64(3), snapshot.Utilization.CPULoad)
	assert.Equal(int64(20), *snapshot.Utilization.NetworkUp)
	assert.Equal(int64(10), *snapshot.Utilization.NetworkDown)
	assert.Equal("DS220+", snapshot.Identity.Model)

	assert.Len(snapshot.Shares, 3)
	assert.Equal("6ba7b810-9dad-11d1-80b4-00c04fd430c8", snapshot.Shares[0].UUID)
	assert.Equal("6ba7b811-9dad-11d1-80b4-00c04fd430c8", snapshot.Shares[1].UUID)
	assert.Equal("not-a-uuid", snapshot.Shares[2].UUID)
}

func TestMissingNetworkTotal(t *testing.T) {
	assert := require.New(t)

	f := newFakeOperations()
	f.util.Network = nil

	snapshot, err := f.dataStore().GetSnapshot(context.Background())
	assert.NoError(err)
	assert.Nil(snapshot.Utilization.NetworkUp)
	assert.Nil(snapshot.Utilization.NetworkDown)
}

func TestMissingTemperature(t *testing.T) {
	assert := require.New(t)

	f := newFakeOperations()
	snapshot, err := f.dataStore().GetSnapshot(context.Background())
	assert.NoError(err)
	assert.Nil(snapshot.Utilization.Temperature)

	f.info.Temperature = util.Float64Ptr(0)
	snapshot, err = f.dataStore().GetSnapshot(context.Background())
	assert.NoError(err)
	assert.NotNil(snapshot.Utilization.Temperature)
	assert.Equal(float64(0), *snapshot.Utilization.Temperature)
}

func TestMissingRequiredFields(t *testing.T) {
	tests := map[string]func(f *fakeOperations){
		"no cpu":          func(f *fakeOperations) { f.util.CPU = nil },
		"no memory size":  func(f *fakeOperations) { f.util.Memory.MemorySize = nil },
		"no memory usage": func(f *fakeOperations) { f.util.Memory.RealUsage = nil },
		"no disk id": func(f *fakeOperations) {
			f.storage.Disks = []client.StorageDisk{{Name: "Drive 1"}}
		},
		"no share id": func(f *fakeOperations) {
			f.shares.Shares = []client.Share{{Name: "data", ShareQuotaUsed: util.Float64Ptr(1)}}
		},
		"no storage data": func(f *fakeOperations) { f.storage = nil },
		"no share data":   func(f *fakeOperations) { f.shares = nil },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			assert := require.New(t)

			f := newFakeOperations()
			mutate(f)
			snapshot, err := f.dataStore().GetSnapshot(context.Background())
			assert.Error(err)
			assert.Nil(snapshot)
			assert.True(client.IsFetchError(err))
		})
	}
}

func TestSubFetchErrorIsFetchError(t *testing.T) {
	assert := require.New(t)

	f := newFakeOperations()
	f.err = errors.New("connection reset")

	_, err := f.dataStore().GetSnapshot(context.Background())
	assert.Error(err)
	assert.True(client.IsFetchError(err))
	assert.Contains(err.Error(), "connection reset")
}

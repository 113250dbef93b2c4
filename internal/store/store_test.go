package store

import (
	"context"
	"errors"
	"testing"

	"fleetops-backend/internal/tabular"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fleetSample(name string) *tabular.Dataset {
	ds := tabular.New(name, "Equipment", "LOB", "In Service Year")
	ds.AppendRow(tabular.Text("10001A"), tabular.Text("Gas Ops"), tabular.Number(2016))
	ds.AppendRow(tabular.Text("10002B"), tabular.Text("Water Ops"), tabular.Number(2020))
	ds.AppendRow(tabular.Null(), tabular.Text("Electric Ops"), tabular.Null())
	return ds
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fs.Save(ctx, DatasetVehicleFleet, fleetSample(DatasetVehicleFleet)))
	assert.True(t, fs.Exists(ctx, DatasetVehicleFleet))

	got, err := fs.Load(ctx, DatasetVehicleFleet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Equipment", "LOB", "In Service Year"}, got.Columns)
	require.Equal(t, 3, got.Len())
	assert.Equal(t, "10001A", got.Cell(0, "Equipment").String())
	year, ok := got.Cell(1, "In Service Year").Float()
	assert.True(t, ok)
	assert.Equal(t, 2020.0, year)
	assert.True(t, got.Cell(2, "Equipment").IsNull())
}

func TestFileStoreMissingDataset(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = fs.Load(context.Background(), "no_such_dataset")
	assert.True(t, errors.Is(err, tabular.ErrDatasetNotFound))
	assert.False(t, fs.Exists(context.Background(), "no_such_dataset"))
}

func TestFileStoreRejectsBadNames(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"../escape", "UPPER", "has space", ".hidden", ""} {
		_, err := fs.Load(ctx, name)
		assert.True(t, errors.Is(err, tabular.ErrInvalidArgument), "name %q", name)
		err = fs.Save(ctx, name, tabular.New(name))
		assert.True(t, errors.Is(err, tabular.ErrInvalidArgument), "name %q", name)
	}
}

func TestFileStoreSaveReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fs.Save(ctx, DatasetVehicleFleet, fleetSample(DatasetVehicleFleet)))

	smaller := tabular.New(DatasetVehicleFleet, "Equipment")
	smaller.AppendRow(tabular.Text("99999"))
	require.NoError(t, fs.Save(ctx, DatasetVehicleFleet, smaller))

	got, err := fs.Load(ctx, DatasetVehicleFleet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Equipment"}, got.Columns)
	assert.Equal(t, 1, got.Len())
}

func TestFileStoreList(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	infos, err := fs.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)

	require.NoError(t, fs.Save(ctx, DatasetVehicleFleet, fleetSample(DatasetVehicleFleet)))
	require.NoError(t, fs.Save(ctx, DatasetLifecycleReference, tabular.New(DatasetLifecycleReference, "Equipment descriptn", "Life Cycle")))

	infos, err = fs.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	// sorted by name
	assert.Equal(t, DatasetLifecycleReference, infos[0].Name)
	assert.Equal(t, DatasetVehicleFleet, infos[1].Name)
	assert.Equal(t, 3, infos[1].Rows)
	assert.Equal(t, []string{"Equipment", "LOB", "In Service Year"}, infos[1].Columns)
}

func TestMemStore(t *testing.T) {
	ctx := context.Background()
	ms := NewMemStore()

	_, err := ms.Load(ctx, DatasetVehicleFleet)
	assert.True(t, errors.Is(err, tabular.ErrDatasetNotFound))

	require.NoError(t, ms.Save(ctx, DatasetVehicleFleet, fleetSample(DatasetVehicleFleet)))
	assert.True(t, ms.Exists(ctx, DatasetVehicleFleet))

	got, err := ms.Load(ctx, DatasetVehicleFleet)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Len())

	infos, err := ms.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, DatasetVehicleFleet, infos[0].Name)
}

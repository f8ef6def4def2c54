package importer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/plantarium-go/internal/conf"
	"github.com/tphakala/plantarium-go/internal/datastore"
	"github.com/tphakala/plantarium-go/internal/errors"
)

// newTestStore opens a SQLite store against a per-test database file.
func newTestStore(t *testing.T) (datastore.Interface, *conf.Settings) {
	t.Helper()

	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = filepath.Join(t.TempDir(), "test.db")

	ds := datastore.New(settings)
	require.NoError(t, ds.Open())
	t.Cleanup(func() { _ = ds.Close() })
	return ds, settings
}

func row(plantID, species string, segments ...string) Row {
	padded := make([]string, 5)
	copy(padded, segments)
	return Row{PlantID: plantID, Species: species, Segments: padded}
}

func TestImportReusesPathPrefixes(t *testing.T) {
	ds, settings := newTestStore(t)
	m := New(ds, settings)

	summary, err := m.Import([]Row{
		row("P-001", "Monstera", "Floor 1", "Kitchen", "Window"),
		row("P-002", "Ficus", "Floor 1", "Kitchen", "Shelf"),
	})
	require.NoError(t, err)

	// Two rows sharing a two-segment prefix create four nodes, not six
	assert.Equal(t, 4, summary.NodesCreated)
	assert.Equal(t, 2, summary.ImportedRecords)
	assert.Empty(t, summary.Errors)
	assert.NotEmpty(t, summary.BatchID)

	count, err := ds.CountLocations()
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestImportDistinctRootsStayDistinct(t *testing.T) {
	ds, settings := newTestStore(t)
	m := New(ds, settings)

	// Same zone name under different floors is a different node
	summary, err := m.Import([]Row{
		row("P-001", "Monstera", "Floor 1", "Kitchen"),
		row("P-002", "Ficus", "Floor 2", "Kitchen"),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, summary.NodesCreated)
}

func TestImportBlankLocationColumns(t *testing.T) {
	ds, settings := newTestStore(t)
	m := New(ds, settings)

	summary, err := m.Import([]Row{row("P-001", "Monstera")})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ImportedRecords)
	assert.Equal(t, 0, summary.NodesCreated)

	plant, err := ds.GetPlant("P-001")
	require.NoError(t, err)
	assert.Nil(t, plant.LocationID)
}

func TestImportCompressesGaps(t *testing.T) {
	ds, settings := newTestStore(t)
	m := New(ds, settings)

	// Floor and pot type with blanks between become a two-node chain
	summary, err := m.Import([]Row{
		{PlantID: "P-001", Species: "Monstera", Segments: []string{"Floor 1", "", "", "Clay pot", ""}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.NodesCreated)

	roots, err := ds.GetLocationHierarchy()
	require.NoError(t, err)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Children, 1)

	leaf := roots[0].Children[0]
	assert.Equal(t, "Clay pot", leaf.Name)
	assert.Equal(t, 2, leaf.Level)
	assert.Equal(t, "Floor 1 > Clay pot", leaf.FullPath)
}

func TestImportLinksDeepestNode(t *testing.T) {
	ds, settings := newTestStore(t)
	m := New(ds, settings)

	_, err := m.Import([]Row{row("P-001", "Monstera", "Floor 1", "Kitchen", "Window", "Clay pot", "Left corner")})
	require.NoError(t, err)

	plant, err := ds.GetPlant("P-001")
	require.NoError(t, err)
	require.NotNil(t, plant.LocationID)

	leaf, err := ds.GetLocation(*plant.LocationID)
	require.NoError(t, err)
	assert.Equal(t, "Left corner", leaf.Name)
	assert.Equal(t, 5, leaf.Level)
}

func TestImportSkipsRowsWithoutPlantFields(t *testing.T) {
	ds, settings := newTestStore(t)
	m := New(ds, settings)

	summary, err := m.Import([]Row{
		row("", "Monstera", "Floor 1"),
		row("P-002", "", "Floor 1"),
		row("P-003", "Ficus", "Floor 1"),
	})
	require.NoError(t, err)

	// Skipped rows are not errors, and their location chains still count
	assert.Equal(t, 1, summary.ImportedRecords)
	assert.Empty(t, summary.Errors)

	count, err := ds.CountPlants()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestImportReplacesOnReimport(t *testing.T) {
	ds, settings := newTestStore(t)
	m := New(ds, settings)

	_, err := m.Import([]Row{row("P-001", "Monstera", "Floor 1")})
	require.NoError(t, err)

	summary, err := m.Import([]Row{row("P-001", "Ficus", "Floor 1")})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ImportedRecords)

	count, err := ds.CountPlants()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	plant, err := ds.GetPlant("P-001")
	require.NoError(t, err)
	assert.Equal(t, "Ficus", plant.Species)
}

func TestImportPathRoundTrip(t *testing.T) {
	ds, settings := newTestStore(t)
	m := New(ds, settings)

	rows := []Row{
		row("P-001", "Monstera", "Floor 1", "Kitchen", "Window"),
		row("P-002", "Ficus", "Floor 2", "Lobby"),
	}
	_, err := m.Import(rows)
	require.NoError(t, err)

	roots, err := ds.GetLocationHierarchy()
	require.NoError(t, err)

	paths := make(map[string]bool)
	var walk func(node *datastore.LocationWithPath)
	walk = func(node *datastore.LocationWithPath) {
		paths[node.FullPath] = true
		for _, child := range node.Children {
			walk(child)
		}
	}
	for _, root := range roots {
		walk(root)
	}

	// Every imported leaf path equals the " > "-joined source segments
	assert.True(t, paths["Floor 1 > Kitchen > Window"])
	assert.True(t, paths["Floor 2 > Lobby"])
}

// failingStore wraps a datastore and fails SavePlant for one plant id,
// simulating a storage error mid-batch. Transaction rewraps the bound tx
// so the failure also fires inside the import transaction.
type failingStore struct {
	datastore.Interface
	failID string
}

func (f *failingStore) SavePlant(plant *datastore.Plant) error {
	if plant.ID == f.failID {
		return errors.New(errors.NewStd("disk I/O error")).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return f.Interface.SavePlant(plant)
}

func (f *failingStore) Transaction(fn func(tx datastore.Interface) error) error {
	return f.Interface.Transaction(func(tx datastore.Interface) error {
		return fn(&failingStore{Interface: tx, failID: f.failID})
	})
}

func TestImportTolerantIsolatesFailedRow(t *testing.T) {
	ds, settings := newTestStore(t)
	m := New(&failingStore{Interface: ds, failID: "P-002"}, settings)

	summary, err := m.Import([]Row{
		row("P-001", "Monstera", "Floor 1", "ZoneA"),
		row("P-002", "Ficus", "Floor 1", "ZoneB"),
		row("P-003", "Aloe", "Floor 1", "ZoneB"),
	})
	require.NoError(t, err)

	// The failed row is collected, the rows around it commit
	assert.Equal(t, 2, summary.ImportedRecords)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "P-002", summary.Errors[0].PlantID)
	assert.Contains(t, summary.Errors[0].Message, "disk I/O error")

	// ZoneB was rolled back with its row and recreated by the next one,
	// so the stored tree and the counter agree
	assert.Equal(t, 3, summary.NodesCreated)
	locations, err := ds.CountLocations()
	require.NoError(t, err)
	assert.Equal(t, int64(3), locations)

	plants, err := ds.CountPlants()
	require.NoError(t, err)
	assert.Equal(t, int64(2), plants)

	_, err = ds.GetPlant("P-002")
	assert.True(t, errors.IsNotFound(err))
}

func TestImportStrictAbortsWholeBatch(t *testing.T) {
	ds, settings := newTestStore(t)
	settings.Import.Strict = true
	m := New(&failingStore{Interface: ds, failID: "P-002"}, settings)

	_, err := m.Import([]Row{
		row("P-001", "Monstera", "Floor 1", "ZoneA"),
		row("P-002", "Ficus", "Floor 1", "ZoneB"),
	})
	require.Error(t, err)
	// A storage failure keeps its category through the abort
	assert.True(t, errors.IsCategory(err, errors.CategoryDatabase))

	// Nothing from the batch survives, not even the committed first row
	plants, err := ds.CountPlants()
	require.NoError(t, err)
	assert.Equal(t, int64(0), plants)

	locations, err := ds.CountLocations()
	require.NoError(t, err)
	assert.Equal(t, int64(0), locations)
}

func TestImportSecondBatchDuplicatesPaths(t *testing.T) {
	ds, settings := newTestStore(t)
	m := New(ds, settings)

	_, err := m.Import([]Row{row("P-001", "Monstera", "Floor 1", "Kitchen")})
	require.NoError(t, err)

	// The dedup cache is per batch, a second import recreates the chain
	summary, err := m.Import([]Row{row("P-002", "Ficus", "Floor 1", "Kitchen")})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.NodesCreated)

	count, err := ds.CountLocations()
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

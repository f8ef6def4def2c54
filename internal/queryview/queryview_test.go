package queryview

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/plantarium-go/internal/conf"
	"github.com/tphakala/plantarium-go/internal/datastore"
	"github.com/tphakala/plantarium-go/internal/importer"
)

// newTestView imports a small fixture batch and returns the view over it.
//
// Floor 1 > Kitchen > Window   (P-001 Monstera)
// Floor 1 > Kitchen > Shelf    (P-002 Ficus, under treatment)
// Floor 1 > Lobby              (P-003 Aloe)
// Floor 2 > Kitchen            (P-004 Sansevieria)
// unassigned                   (P-005 Cactus)
func newTestView(t *testing.T) (*View, datastore.Interface) {
	t.Helper()

	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = filepath.Join(t.TempDir(), "test.db")

	ds := datastore.New(settings)
	require.NoError(t, ds.Open())
	t.Cleanup(func() { _ = ds.Close() })

	rows := []importer.Row{
		{PlantID: "P-001", Species: "Monstera", Segments: []string{"Floor 1", "Kitchen", "Window", "", ""}},
		{PlantID: "P-002", Species: "Ficus", Segments: []string{"Floor 1", "Kitchen", "Shelf", "", ""}},
		{PlantID: "P-003", Species: "Aloe", Segments: []string{"Floor 1", "Lobby", "", "", ""}},
		{PlantID: "P-004", Species: "Sansevieria", Segments: []string{"Floor 2", "Kitchen", "", "", ""}},
		{PlantID: "P-005", Species: "Cactus", Segments: []string{"", "", "", "", ""}},
	}
	_, err := importer.New(ds, settings).Import(rows)
	require.NoError(t, err)

	status := string(datastore.StatusUnderTreatment)
	_, err = ds.UpdatePlant("P-002", &datastore.PlantPatch{Status: &status})
	require.NoError(t, err)

	return New(ds), ds
}

func TestFloors(t *testing.T) {
	v, _ := newTestView(t)

	floors, err := v.Floors()
	require.NoError(t, err)
	assert.Equal(t, []string{"Floor 1", "Floor 2"}, floors)
}

func TestMainZones(t *testing.T) {
	v, _ := newTestView(t)

	zones, err := v.MainZones("")
	require.NoError(t, err)
	assert.Equal(t, []string{"Kitchen", "Lobby"}, zones)

	zones, err = v.MainZones("Floor 2")
	require.NoError(t, err)
	assert.Equal(t, []string{"Kitchen"}, zones)
}

func TestSubZones(t *testing.T) {
	v, _ := newTestView(t)

	zones, err := v.SubZones("Floor 1", "Kitchen")
	require.NoError(t, err)
	assert.Equal(t, []string{"Shelf", "Window"}, zones)

	zones, err = v.SubZones("Floor 2", "")
	require.NoError(t, err)
	assert.Empty(t, zones)
}

func TestZonesFlattensAllNodes(t *testing.T) {
	v, ds := newTestView(t)

	zones, err := v.Zones()
	require.NoError(t, err)

	count, err := ds.CountLocations()
	require.NoError(t, err)
	assert.Len(t, zones, int(count))

	byPath := make(map[string]Zone, len(zones))
	for _, zone := range zones {
		byPath[zone.FullPath] = zone
	}

	window := byPath["Floor 1 > Kitchen > Window"]
	assert.Equal(t, "Window", window.Name)
	assert.Equal(t, 3, window.Level)
	assert.Equal(t, "Floor 1", window.Floor)
	assert.Equal(t, "Kitchen", window.MainZone)
	assert.Equal(t, "Window", window.SubZone)

	lobby := byPath["Floor 1 > Lobby"]
	assert.Equal(t, "Lobby", lobby.MainZone)
	assert.Empty(t, lobby.SubZone)
}

func TestPlantsWithPathSegments(t *testing.T) {
	v, _ := newTestView(t)

	plants, err := v.PlantsWithPath(&PlantQuery{})
	require.NoError(t, err)
	require.Len(t, plants, 5)

	byID := make(map[string]PlantView, len(plants))
	for _, plant := range plants {
		byID[plant.ID] = plant
	}
	assert.Equal(t, "Floor 1 > Kitchen > Window", byID["P-001"].FullPath)
	assert.Empty(t, byID["P-005"].FullPath)
	assert.Nil(t, byID["P-005"].LocationID)
}

func TestPlantsWithPathFilters(t *testing.T) {
	v, _ := newTestView(t)

	tests := []struct {
		name  string
		query PlantQuery
		want  []string
	}{
		{"by floor", PlantQuery{Floor: "Floor 1"}, []string{"P-001", "P-002", "P-003"}},
		{"by floor and main zone", PlantQuery{Floor: "Floor 1", MainZone: "Kitchen"}, []string{"P-001", "P-002"}},
		{"by sub zone", PlantQuery{SubZone: "Shelf"}, []string{"P-002"}},
		{"main zone spans floors", PlantQuery{MainZone: "Kitchen"}, []string{"P-001", "P-002", "P-004"}},
		{"unassigned excluded when filtered", PlantQuery{Floor: "Floor 3"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plants, err := v.PlantsWithPath(&tt.query)
			require.NoError(t, err)

			ids := make([]string, 0, len(plants))
			for _, plant := range plants {
				ids = append(ids, plant.ID)
			}
			if tt.want == nil {
				assert.Empty(t, ids)
			} else {
				assert.Equal(t, tt.want, ids)
			}
		})
	}
}

func TestPlantsWithPathCombinesStoreFilter(t *testing.T) {
	v, _ := newTestView(t)

	query := &PlantQuery{Floor: "Floor 1"}
	query.Status = string(datastore.StatusUnderTreatment)

	plants, err := v.PlantsWithPath(query)
	require.NoError(t, err)
	require.Len(t, plants, 1)
	assert.Equal(t, "P-002", plants[0].ID)
}

func TestPlantView(t *testing.T) {
	v, _ := newTestView(t)

	plant, err := v.Plant("P-004")
	require.NoError(t, err)
	assert.Equal(t, "Sansevieria", plant.Species)
	assert.Equal(t, "Floor 2 > Kitchen", plant.FullPath)
	assert.Equal(t, "Floor 2", plant.Floor)
	assert.Equal(t, "Kitchen", plant.MainZone)
	require.NotNil(t, plant.LocationName)
	assert.Equal(t, "Kitchen", *plant.LocationName)
}

package datastore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/plantarium-go/internal/conf"
	"github.com/tphakala/plantarium-go/internal/errors"
)

// newTestStore opens a SQLite store against a per-test database file.
func newTestStore(t *testing.T) Interface {
	t.Helper()

	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = filepath.Join(t.TempDir(), "test.db")

	ds := New(settings)
	require.NoError(t, ds.Open())
	t.Cleanup(func() { _ = ds.Close() })
	return ds
}

// seedChain creates a parent/child location pair and returns both ids.
func seedChain(t *testing.T, ds Interface) (parentID, childID uint) {
	t.Helper()

	parent := Location{Name: "Floor 1", Level: 1}
	require.NoError(t, ds.CreateLocation(&parent))
	child := Location{Name: "Kitchen", Level: 2, ParentID: &parent.ID}
	require.NoError(t, ds.CreateLocation(&child))
	return parent.ID, child.ID
}

func TestCreateLocationValidation(t *testing.T) {
	ds := newTestStore(t)

	tests := []struct {
		name     string
		location Location
	}{
		{"empty name", Location{Name: "", Level: 1}},
		{"level too low", Location{Name: "X", Level: 0}},
		{"level too high", Location{Name: "X", Level: MaxLocationDepth + 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ds.CreateLocation(&tt.location)
			assert.True(t, errors.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestCreateLocationRejectsMissingParent(t *testing.T) {
	ds := newTestStore(t)

	missing := uint(999)
	err := ds.CreateLocation(&Location{Name: "Orphan", Level: 2, ParentID: &missing})
	assert.True(t, errors.IsValidation(err))
}

func TestGetLocationsByParent(t *testing.T) {
	ds := newTestStore(t)
	parentID, childID := seedChain(t, ds)

	roots, err := ds.GetLocationsByParent(nil)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, parentID, roots[0].ID)

	children, err := ds.GetLocationsByParent(&parentID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, childID, children[0].ID)
}

func TestGetLocationHierarchyPaths(t *testing.T) {
	ds := newTestStore(t)
	parentID, _ := seedChain(t, ds)

	grandchild := Location{Name: "Window sill", Level: 3}
	children, err := ds.GetLocationsByParent(&parentID)
	require.NoError(t, err)
	grandchild.ParentID = &children[0].ID
	require.NoError(t, ds.CreateLocation(&grandchild))

	roots, err := ds.GetLocationHierarchy()
	require.NoError(t, err)
	require.Len(t, roots, 1)

	root := roots[0]
	assert.Equal(t, "Floor 1", root.FullPath)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "Floor 1 > Kitchen", root.Children[0].FullPath)
	require.Len(t, root.Children[0].Children, 1)
	assert.Equal(t, "Floor 1 > Kitchen > Window sill", root.Children[0].Children[0].FullPath)
}

func TestCreatePlantConflict(t *testing.T) {
	ds := newTestStore(t)

	require.NoError(t, ds.CreatePlant(&Plant{ID: "P-001", Species: "Monstera"}))

	err := ds.CreatePlant(&Plant{ID: "P-001", Species: "Ficus"})
	assert.True(t, errors.IsConflict(err), "expected conflict, got %v", err)

	// Original record is untouched
	plant, err := ds.GetPlant("P-001")
	require.NoError(t, err)
	assert.Equal(t, "Monstera", plant.Species)
}

func TestCreatePlantDefaultsStatus(t *testing.T) {
	ds := newTestStore(t)

	require.NoError(t, ds.CreatePlant(&Plant{ID: "P-001", Species: "Monstera"}))

	plant, err := ds.GetPlant("P-001")
	require.NoError(t, err)
	assert.Equal(t, string(StatusHealthy), plant.Status)
}

func TestSavePlantReplaces(t *testing.T) {
	ds := newTestStore(t)

	require.NoError(t, ds.SavePlant(&Plant{ID: "P-001", Species: "Monstera", Status: string(StatusUnderTreatment)}))
	require.NoError(t, ds.SavePlant(&Plant{ID: "P-001", Species: "Ficus"}))

	count, err := ds.CountPlants()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	plant, err := ds.GetPlant("P-001")
	require.NoError(t, err)
	assert.Equal(t, "Ficus", plant.Species)
	// Replacement is total, the old status does not survive
	assert.Equal(t, string(StatusHealthy), plant.Status)
}

func TestFilterPlantsConjunction(t *testing.T) {
	ds := newTestStore(t)
	_, childID := seedChain(t, ds)

	require.NoError(t, ds.CreatePlant(&Plant{ID: "P-001", Species: "Monstera", LocationID: &childID, Status: string(StatusHealthy)}))
	require.NoError(t, ds.CreatePlant(&Plant{ID: "P-002", Species: "Ficus", LocationID: &childID, Status: string(StatusUnderTreatment)}))
	require.NoError(t, ds.CreatePlant(&Plant{ID: "P-003", Species: "Monstera", Status: string(StatusHealthy)}))

	plants, err := ds.FilterPlants(&PlantFilter{Status: string(StatusHealthy), LocationID: &childID})
	require.NoError(t, err)
	require.Len(t, plants, 1)
	assert.Equal(t, "P-001", plants[0].ID)
	require.NotNil(t, plants[0].LocationName)
	assert.Equal(t, "Kitchen", *plants[0].LocationName)
}

func TestSearchPlantsMatchesIDOrSpecies(t *testing.T) {
	ds := newTestStore(t)

	require.NoError(t, ds.CreatePlant(&Plant{ID: "P-001", Species: "Monstera deliciosa"}))
	require.NoError(t, ds.CreatePlant(&Plant{ID: "MON-7", Species: "Ficus"}))
	require.NoError(t, ds.CreatePlant(&Plant{ID: "P-002", Species: "Sansevieria"}))

	plants, err := ds.SearchPlants("mon")
	require.NoError(t, err)
	require.Len(t, plants, 2)
	assert.Equal(t, "MON-7", plants[0].ID)
	assert.Equal(t, "P-001", plants[1].ID)
}

func TestUpdatePlantPatch(t *testing.T) {
	ds := newTestStore(t)
	_, childID := seedChain(t, ds)

	require.NoError(t, ds.CreatePlant(&Plant{ID: "P-001", Species: "Monstera", LocationID: &childID}))

	newStatus := string(StatusUnderObservation)
	notes := "yellowing leaves"
	updated, err := ds.UpdatePlant("P-001", &PlantPatch{Status: &newStatus, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, newStatus, updated.Status)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, notes, *updated.Notes)
	// Untouched fields survive
	assert.Equal(t, "Monstera", updated.Species)
	require.NotNil(t, updated.LocationID)
	assert.Equal(t, childID, *updated.LocationID)
}

func TestUpdatePlantClearsLocation(t *testing.T) {
	ds := newTestStore(t)
	_, childID := seedChain(t, ds)

	require.NoError(t, ds.CreatePlant(&Plant{ID: "P-001", Species: "Monstera", LocationID: &childID}))

	clear := uint(0)
	updated, err := ds.UpdatePlant("P-001", &PlantPatch{LocationID: &clear})
	require.NoError(t, err)
	assert.Nil(t, updated.LocationID)
}

func TestUpdatePlantRejectsBadStatus(t *testing.T) {
	ds := newTestStore(t)

	require.NoError(t, ds.CreatePlant(&Plant{ID: "P-001", Species: "Monstera"}))

	bad := "Wilted"
	_, err := ds.UpdatePlant("P-001", &PlantPatch{Status: &bad})
	assert.True(t, errors.IsValidation(err))
}

func TestUpdatePlantNotFound(t *testing.T) {
	ds := newTestStore(t)

	species := "Ficus"
	_, err := ds.UpdatePlant("nope", &PlantPatch{Species: &species})
	assert.True(t, errors.IsNotFound(err))
}

func TestDeletePlant(t *testing.T) {
	ds := newTestStore(t)

	require.NoError(t, ds.CreatePlant(&Plant{ID: "P-001", Species: "Monstera"}))

	deleted, err := ds.DeletePlant("P-001")
	require.NoError(t, err)
	assert.True(t, deleted)

	// Deleting an unknown id reports false, not an error
	deleted, err = ds.DeletePlant("P-001")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCountPlantsByStatus(t *testing.T) {
	ds := newTestStore(t)

	require.NoError(t, ds.CreatePlant(&Plant{ID: "P-001", Species: "Monstera"}))
	require.NoError(t, ds.CreatePlant(&Plant{ID: "P-002", Species: "Ficus"}))
	require.NoError(t, ds.CreatePlant(&Plant{ID: "P-003", Species: "Aloe", Status: string(StatusUnderTreatment)}))

	counts, err := ds.CountPlantsByStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[string(StatusHealthy)])
	assert.Equal(t, int64(1), counts[string(StatusUnderTreatment)])
}

func TestTransactionRollsBack(t *testing.T) {
	ds := newTestStore(t)

	err := ds.Transaction(func(tx Interface) error {
		if err := tx.CreatePlant(&Plant{ID: "P-001", Species: "Monstera"}); err != nil {
			return err
		}
		return errors.NewStd("boom")
	})
	require.Error(t, err)

	count, err := ds.CountPlants()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestUserPasswordRoundTrip(t *testing.T) {
	ds := newTestStore(t)

	hash, err := HashPassword("secret")
	require.NoError(t, err)
	require.NoError(t, ds.CreateUser(&User{Email: "gardener@example.com", PasswordHash: hash}))

	user, err := ds.GetUserByEmail("gardener@example.com")
	require.NoError(t, err)
	assert.True(t, CheckPassword(user.PasswordHash, "secret"))
	assert.False(t, CheckPassword(user.PasswordHash, "wrong"))

	_, err = ds.GetUserByEmail("nobody@example.com")
	assert.True(t, errors.IsNotFound(err))
}

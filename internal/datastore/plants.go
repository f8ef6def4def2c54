// plants.go: database operations for the plant catalog
package datastore

import (
	"fmt"

	"github.com/tphakala/plantarium-go/internal/errors"
	"gorm.io/gorm"
)

// plantColumns is the select list for plant queries joined with the
// assigned location's name.
const plantColumns = "plants.id, plants.species, plants.location_id, plants.status, plants.notes, locations.name AS location_name"

// plantQuery builds the base query joining plants with their location.
func (ds *DataStore) plantQuery() *gorm.DB {
	return ds.DB.Table("plants").
		Select(plantColumns).
		Joins("LEFT JOIN locations ON plants.location_id = locations.id")
}

// GetAllPlants retrieves all plants joined with their location name.
func (ds *DataStore) GetAllPlants() ([]PlantWithLocation, error) {
	var plants []PlantWithLocation
	if err := ds.plantQuery().Order("plants.id ASC").Scan(&plants).Error; err != nil {
		return nil, fmt.Errorf("error getting all plants: %w", err)
	}
	return plants, nil
}

// GetPlant retrieves a single plant by its external id.
func (ds *DataStore) GetPlant(id string) (PlantWithLocation, error) {
	var plants []PlantWithLocation
	if err := ds.plantQuery().Where("plants.id = ?", id).Limit(1).Scan(&plants).Error; err != nil {
		return PlantWithLocation{}, fmt.Errorf("getting plant %s: %w", id, err)
	}
	if len(plants) == 0 {
		return PlantWithLocation{}, errors.NotFoundError("plant", id)
	}
	return plants[0], nil
}

// SearchPlants performs a substring search against plant id OR species.
func (ds *DataStore) SearchPlants(query string) ([]PlantWithLocation, error) {
	return ds.FilterPlants(&PlantFilter{Search: query})
}

// FilterPlants retrieves plants matching every set criterion of the filter.
func (ds *DataStore) FilterPlants(filter *PlantFilter) ([]PlantWithLocation, error) {
	query := ds.plantQuery()

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("plants.id LIKE ? OR plants.species LIKE ?", pattern, pattern)
	}
	if filter.Status != "" {
		query = query.Where("plants.status = ?", filter.Status)
	}
	if filter.LocationID != nil {
		query = query.Where("plants.location_id = ?", *filter.LocationID)
	}

	var plants []PlantWithLocation
	if err := query.Order("plants.id ASC").Scan(&plants).Error; err != nil {
		return nil, fmt.Errorf("error filtering plants: %w", err)
	}
	return plants, nil
}

// validatePlant checks the invariants shared by create and save.
func validatePlant(plant *Plant) error {
	if plant.ID == "" {
		return errors.ValidationError("plant id must not be empty")
	}
	if plant.Species == "" {
		return errors.ValidationError("plant species must not be empty")
	}
	if plant.Status == "" {
		plant.Status = string(StatusHealthy)
	}
	if !ValidStatus(plant.Status) {
		return errors.Newf("invalid plant status: %s", plant.Status).
			Component("datastore").
			Category(errors.CategoryValidation).
			Context("status", plant.Status).
			Build()
	}
	return nil
}

// CreatePlant inserts a new plant record. An existing record with the same
// id is a conflict, replacement happens only through the import path.
func (ds *DataStore) CreatePlant(plant *Plant) error {
	if err := validatePlant(plant); err != nil {
		return err
	}

	var count int64
	if err := ds.DB.Model(&Plant{}).Where("id = ?", plant.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("checking for existing plant %s: %w", plant.ID, err)
	}
	if count > 0 {
		return errors.Newf("plant already exists: %s", plant.ID).
			Component("datastore").
			Category(errors.CategoryConflict).
			Context("plant_id", plant.ID).
			Build()
	}

	if err := ds.DB.Create(plant).Error; err != nil {
		return errors.New(fmt.Errorf("saving plant %s: %w", plant.ID, err)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return nil
}

// SavePlant upserts a plant record, replacing any prior record with the
// same id entirely. This is the import path's replace-on-reimport behavior.
func (ds *DataStore) SavePlant(plant *Plant) error {
	if err := validatePlant(plant); err != nil {
		return err
	}

	return ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", plant.ID).Delete(&Plant{}).Error; err != nil {
			return fmt.Errorf("replacing plant %s: %w", plant.ID, err)
		}
		if err := tx.Create(plant).Error; err != nil {
			return fmt.Errorf("saving plant %s: %w", plant.ID, err)
		}
		return nil
	})
}

// UpdatePlant applies a partial update to an existing plant, field by
// field with presence checks. Returns the updated record.
func (ds *DataStore) UpdatePlant(id string, patch *PlantPatch) (Plant, error) {
	var plant Plant
	if err := ds.DB.First(&plant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Plant{}, errors.NotFoundError("plant", id)
		}
		return Plant{}, fmt.Errorf("getting plant %s: %w", id, err)
	}

	updates := make(map[string]any)
	if patch.Species != nil {
		if *patch.Species == "" {
			return Plant{}, errors.ValidationError("plant species must not be empty")
		}
		updates["species"] = *patch.Species
	}
	if patch.Status != nil {
		if !ValidStatus(*patch.Status) {
			return Plant{}, errors.Newf("invalid plant status: %s", *patch.Status).
				Component("datastore").
				Category(errors.CategoryValidation).
				Context("status", *patch.Status).
				Build()
		}
		updates["status"] = *patch.Status
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}
	if patch.LocationID != nil {
		if *patch.LocationID == 0 {
			// Zero clears the assignment
			updates["location_id"] = nil
		} else {
			if _, err := ds.GetLocation(*patch.LocationID); err != nil {
				return Plant{}, errors.Newf("location %d does not exist", *patch.LocationID).
					Component("datastore").
					Category(errors.CategoryValidation).
					Context("location_id", *patch.LocationID).
					Build()
			}
			updates["location_id"] = *patch.LocationID
		}
	}

	if len(updates) > 0 {
		if err := ds.DB.Model(&plant).Updates(updates).Error; err != nil {
			return Plant{}, fmt.Errorf("updating plant %s: %w", id, err)
		}
	}

	if err := ds.DB.First(&plant, "id = ?", id).Error; err != nil {
		return Plant{}, fmt.Errorf("reloading plant %s: %w", id, err)
	}
	return plant, nil
}

// DeletePlant removes a plant by id. Returns false when no such plant exists.
func (ds *DataStore) DeletePlant(id string) (bool, error) {
	result := ds.DB.Where("id = ?", id).Delete(&Plant{})
	if result.Error != nil {
		return false, fmt.Errorf("deleting plant %s: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CountPlants returns the total number of plant records.
func (ds *DataStore) CountPlants() (int64, error) {
	var count int64
	if err := ds.DB.Model(&Plant{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("error counting plants: %w", err)
	}
	return count, nil
}

// CountPlantsByStatus returns plant counts grouped by status.
func (ds *DataStore) CountPlantsByStatus() (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := ds.DB.Model(&Plant{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("error counting plants by status: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

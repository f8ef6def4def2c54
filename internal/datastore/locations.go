// locations.go: database operations for the hierarchical location tree
package datastore

import (
	"fmt"

	"github.com/tphakala/plantarium-go/internal/errors"
	"gorm.io/gorm"
)

// GetAllLocations retrieves all location nodes ordered by id, which matches
// insertion order and therefore guarantees parents sort before children.
func (ds *DataStore) GetAllLocations() ([]Location, error) {
	var locations []Location
	if result := ds.DB.Order("id ASC").Find(&locations); result.Error != nil {
		return nil, fmt.Errorf("error getting all locations: %w", result.Error)
	}
	return locations, nil
}

// GetLocation retrieves a location node by its ID.
func (ds *DataStore) GetLocation(id uint) (Location, error) {
	var location Location
	if err := ds.DB.First(&location, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Location{}, errors.Newf("location not found: %d", id).
				Component("datastore").
				Category(errors.CategoryNotFound).
				Context("location_id", id).
				Build()
		}
		return Location{}, fmt.Errorf("getting location with ID %d: %w", id, err)
	}
	return location, nil
}

// GetLocationsByParent retrieves the direct children of a node, or the root
// nodes when parentID is nil.
func (ds *DataStore) GetLocationsByParent(parentID *uint) ([]Location, error) {
	var locations []Location
	query := ds.DB.Order("id ASC")
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	if err := query.Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("error getting locations by parent: %w", err)
	}
	return locations, nil
}

// GetLocationsByLevel retrieves all nodes at a given hierarchy level.
func (ds *DataStore) GetLocationsByLevel(level int) ([]Location, error) {
	var locations []Location
	if err := ds.DB.Where("level = ?", level).Order("id ASC").Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("error getting locations by level: %w", err)
	}
	return locations, nil
}

// CreateLocation persists a new location node. The parent, when set, must
// already exist; this is what keeps the tree acyclic.
func (ds *DataStore) CreateLocation(location *Location) error {
	if location.Name == "" {
		return errors.Newf("location name must not be empty").
			Component("datastore").
			Category(errors.CategoryValidation).
			Build()
	}
	if location.Level < 1 || location.Level > MaxLocationDepth {
		return errors.Newf("location level %d out of range 1-%d", location.Level, MaxLocationDepth).
			Component("datastore").
			Category(errors.CategoryValidation).
			Context("level", location.Level).
			Build()
	}
	if location.ParentID != nil {
		if _, err := ds.GetLocation(*location.ParentID); err != nil {
			return errors.Newf("parent location %d does not exist", *location.ParentID).
				Component("datastore").
				Category(errors.CategoryValidation).
				Context("parent_id", *location.ParentID).
				Build()
		}
	}

	if err := ds.DB.Create(location).Error; err != nil {
		return errors.New(fmt.Errorf("saving location: %w", err)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return nil
}

// GetLocationHierarchy builds the location forest with computed full paths
// in a single pass. Traversal order matches insertion order, so every parent
// is annotated before its children are visited.
func (ds *DataStore) GetLocationHierarchy() ([]*LocationWithPath, error) {
	locations, err := ds.GetAllLocations()
	if err != nil {
		return nil, err
	}

	nodeByID := make(map[uint]*LocationWithPath, len(locations))
	roots := make([]*LocationWithPath, 0)

	for i := range locations {
		node := &LocationWithPath{Location: locations[i]}
		nodeByID[node.ID] = node

		if node.ParentID == nil {
			node.FullPath = node.Name
			roots = append(roots, node)
			continue
		}

		parent, ok := nodeByID[*node.ParentID]
		if !ok {
			// Orphaned node, should not happen with the write-time invariant
			return nil, fmt.Errorf("location %d references missing parent %d", node.ID, *node.ParentID)
		}
		node.FullPath = parent.FullPath + PathSeparator + node.Name
		parent.Children = append(parent.Children, node)
	}

	return roots, nil
}

// CountLocations returns the total number of location nodes.
func (ds *DataStore) CountLocations() (int64, error) {
	var count int64
	if err := ds.DB.Model(&Location{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("error counting locations: %w", err)
	}
	return count, nil
}

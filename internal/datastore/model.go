// model.go this code defines the data model for the application
package datastore

// PlantStatus is the health status of a catalogued plant
type PlantStatus string

const (
	StatusHealthy          PlantStatus = "Healthy"
	StatusUnderObservation PlantStatus = "UnderObservation"
	StatusUnderTreatment   PlantStatus = "UnderTreatment"
	StatusMarkedForRemoval PlantStatus = "MarkedForRemoval"
)

// AllStatuses lists every valid plant status in display order
var AllStatuses = []PlantStatus{
	StatusHealthy,
	StatusUnderObservation,
	StatusUnderTreatment,
	StatusMarkedForRemoval,
}

// ValidStatus reports whether s is a known plant status
func ValidStatus(s string) bool {
	for _, status := range AllStatuses {
		if string(status) == s {
			return true
		}
	}
	return false
}

// MaxLocationDepth is the number of ranks in the physical hierarchy:
// floor, main zone, sub-zone, pot type, precise spot.
const MaxLocationDepth = 5

// PathSeparator joins location segment names into a full path string.
const PathSeparator = " > "

// Location represents one node of the hierarchical location tree
type Location struct {
	ID       uint       `gorm:"primaryKey"`
	Name     string     `gorm:"not null"`
	Level    int        `gorm:"not null;index:idx_locations_level"`
	ParentID *uint      `gorm:"index:idx_locations_parent_id"`
	Children []Location `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
}

// Plant represents a single catalogued plant. The ID is supplied
// externally, typically from the CSV source, and is never generated.
type Plant struct {
	ID         string  `gorm:"primaryKey"`
	Species    string  `gorm:"not null"`
	LocationID *uint   `gorm:"index:idx_plants_location_id"`
	Status     string  `gorm:"not null;default:Healthy;index:idx_plants_status"`
	Notes      *string
}

// User represents an application user. The table is kept for parity with
// the original data model, no route currently authenticates against it.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
}

// LocationWithPath is a location annotated with its computed full path
// and its direct children, as produced by GetLocationHierarchy.
type LocationWithPath struct {
	Location
	FullPath string              `json:"fullPath"`
	Children []*LocationWithPath `json:"children,omitempty"`
}

// PlantWithLocation is a flattened plant row joined with the name of its
// assigned location node, nil when the plant is unassigned.
type PlantWithLocation struct {
	ID           string
	Species      string
	LocationID   *uint
	Status       string
	Notes        *string
	LocationName *string
}

// PlantFilter holds the conjunctive filter criteria for plant queries.
// Zero values mean "no constraint" for that field.
type PlantFilter struct {
	Search     string // substring match against plant id OR species
	Status     string // exact status match
	LocationID *uint  // exact location node match
}

// PlantPatch carries a partial update for a plant. Nil fields are left
// untouched. A LocationID pointing at zero clears the assignment.
type PlantPatch struct {
	Species    *string
	LocationID *uint
	Status     *string
	Notes      *string
}

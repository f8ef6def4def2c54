// Package queryview derives read-only views from the datastore: distinct
// zone name lists cut at each hierarchy level, flattened node lists with
// full paths, and plant composites annotated with their location path.
// Everything is computed per call, nothing here caches.
package queryview

import (
	"sort"

	"github.com/tphakala/plantarium-go/internal/datastore"
)

// View is the read façade over the datastore.
type View struct {
	ds datastore.Interface
}

// New returns a View backed by ds.
func New(ds datastore.Interface) *View {
	return &View{ds: ds}
}

// Zone is one location node flattened out of the tree: its id, full path
// and the first three path segments. Deeper nodes leave SubZone at the
// third segment of their path.
type Zone struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
	FullPath string `json:"fullPath"`
	Floor    string `json:"floor,omitempty"`
	MainZone string `json:"mainZone,omitempty"`
	SubZone  string `json:"subZone,omitempty"`
}

// PlantView is a plant annotated with its location path, as served by the
// plant list and detail endpoints.
type PlantView struct {
	ID           string  `json:"id"`
	Species      string  `json:"species"`
	Status       string  `json:"status"`
	Notes        *string `json:"notes"`
	LocationID   *uint   `json:"locationId"`
	LocationName *string `json:"locationName"`
	FullPath     string  `json:"fullPath,omitempty"`
	Floor        string  `json:"floor,omitempty"`
	MainZone     string  `json:"mainZone,omitempty"`
	SubZone      string  `json:"subZone,omitempty"`
}

// PlantQuery combines datastore filter criteria with path-segment filters
// applied after the join. Empty strings mean "no constraint".
type PlantQuery struct {
	datastore.PlantFilter
	Floor    string
	MainZone string
	SubZone  string
}

// flatNode is one hierarchy node with its path segments in root-first order.
type flatNode struct {
	id       uint
	name     string
	level    int
	fullPath string
	segments []string
}

// flatten walks the location forest depth-first and returns every node with
// its accumulated path segments.
func (v *View) flatten() ([]flatNode, error) {
	roots, err := v.ds.GetLocationHierarchy()
	if err != nil {
		return nil, err
	}

	var nodes []flatNode
	var walk func(node *datastore.LocationWithPath, ancestors []string)
	walk = func(node *datastore.LocationWithPath, ancestors []string) {
		segments := append(append([]string(nil), ancestors...), node.Name)
		nodes = append(nodes, flatNode{
			id:       node.ID,
			name:     node.Name,
			level:    node.Level,
			fullPath: node.FullPath,
			segments: segments,
		})
		for _, child := range node.Children {
			walk(child, segments)
		}
	}
	for _, root := range roots {
		walk(root, nil)
	}
	return nodes, nil
}

// segment returns the i-th path segment or "" past the end.
func (n flatNode) segment(i int) string {
	if i < len(n.segments) {
		return n.segments[i]
	}
	return ""
}

// distinctSegments collects the sorted distinct names found at segment
// position depth-1 among nodes whose path matches every given prefix
// filter. Empty filters match everything.
func (v *View) distinctSegments(depth int, prefixes ...string) ([]string, error) {
	nodes, err := v.flatten()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, node := range nodes {
		if len(node.segments) < depth {
			continue
		}
		matched := true
		for i, prefix := range prefixes {
			if prefix != "" && node.segment(i) != prefix {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		name := node.segments[depth-1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Floors returns the sorted distinct first-level zone names.
func (v *View) Floors() ([]string, error) {
	return v.distinctSegments(1)
}

// MainZones returns the sorted distinct second-level names, optionally
// restricted to one floor.
func (v *View) MainZones(floor string) ([]string, error) {
	return v.distinctSegments(2, floor)
}

// SubZones returns the sorted distinct third-level names, optionally
// restricted to one floor and main zone.
func (v *View) SubZones(floor, mainZone string) ([]string, error) {
	return v.distinctSegments(3, floor, mainZone)
}

// Zones returns every location node flattened, with full path and the
// first three path segments, ordered by node id.
func (v *View) Zones() ([]Zone, error) {
	nodes, err := v.flatten()
	if err != nil {
		return nil, err
	}

	zones := make([]Zone, 0, len(nodes))
	for _, node := range nodes {
		zones = append(zones, Zone{
			ID:       node.id,
			Name:     node.name,
			Level:    node.level,
			FullPath: node.fullPath,
			Floor:    node.segment(0),
			MainZone: node.segment(1),
			SubZone:  node.segment(2),
		})
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i].ID < zones[j].ID })
	return zones, nil
}

// Plant returns one plant annotated with its location path.
func (v *View) Plant(id string) (PlantView, error) {
	plant, err := v.ds.GetPlant(id)
	if err != nil {
		return PlantView{}, err
	}

	view := PlantView{
		ID:           plant.ID,
		Species:      plant.Species,
		Status:       plant.Status,
		Notes:        plant.Notes,
		LocationID:   plant.LocationID,
		LocationName: plant.LocationName,
	}
	if plant.LocationID == nil {
		return view, nil
	}

	nodes, err := v.flatten()
	if err != nil {
		return PlantView{}, err
	}
	for _, node := range nodes {
		if node.id == *plant.LocationID {
			view.FullPath = node.fullPath
			view.Floor = node.segment(0)
			view.MainZone = node.segment(1)
			view.SubZone = node.segment(2)
			break
		}
	}
	return view, nil
}

// PlantsWithPath retrieves plants through the datastore filter and then
// applies the path-segment filters conjunctively. A plant without a
// location only survives when no segment filter is set.
func (v *View) PlantsWithPath(query *PlantQuery) ([]PlantView, error) {
	plants, err := v.ds.FilterPlants(&query.PlantFilter)
	if err != nil {
		return nil, err
	}

	nodes, err := v.flatten()
	if err != nil {
		return nil, err
	}
	nodeByID := make(map[uint]flatNode, len(nodes))
	for _, node := range nodes {
		nodeByID[node.id] = node
	}

	pathFiltered := query.Floor != "" || query.MainZone != "" || query.SubZone != ""

	views := make([]PlantView, 0, len(plants))
	for _, plant := range plants {
		view := PlantView{
			ID:           plant.ID,
			Species:      plant.Species,
			Status:       plant.Status,
			Notes:        plant.Notes,
			LocationID:   plant.LocationID,
			LocationName: plant.LocationName,
		}

		if plant.LocationID != nil {
			if node, ok := nodeByID[*plant.LocationID]; ok {
				view.FullPath = node.fullPath
				view.Floor = node.segment(0)
				view.MainZone = node.segment(1)
				view.SubZone = node.segment(2)
			}
		} else if pathFiltered {
			continue
		}

		if query.Floor != "" && view.Floor != query.Floor {
			continue
		}
		if query.MainZone != "" && view.MainZone != query.MainZone {
			continue
		}
		if query.SubZone != "" && view.SubZone != query.SubZone {
			continue
		}
		views = append(views, view)
	}
	return views, nil
}

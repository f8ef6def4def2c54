// internal/api/locations.go
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tphakala/plantarium-go/internal/datastore"
)

// initLocationRoutes registers the location tree endpoints
func (c *Controller) initLocationRoutes() {
	c.Group.GET("/locations", c.GetLocations)
	c.Group.GET("/locations/hierarchy", c.GetLocationHierarchy)
	c.Group.POST("/locations", c.CreateLocation)
}

// locationResponse is the flat JSON shape of one location node.
type locationResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
	ParentID *uint  `json:"parentId"`
}

func toLocationResponse(loc *datastore.Location) locationResponse {
	return locationResponse{
		ID:       loc.ID,
		Name:     loc.Name,
		Level:    loc.Level,
		ParentID: loc.ParentID,
	}
}

// GetLocations lists location nodes, optionally filtered by level or
// parentId. parentId=null selects the root nodes.
func (c *Controller) GetLocations(ctx echo.Context) error {
	var (
		locations []datastore.Location
		err       error
	)

	switch {
	case ctx.QueryParam("level") != "":
		level, parseErr := strconv.Atoi(ctx.QueryParam("level"))
		if parseErr != nil {
			return c.HandleError(ctx, parseErr, "invalid level filter", http.StatusBadRequest)
		}
		locations, err = c.DS.GetLocationsByLevel(level)
	case ctx.QueryParam("parentId") == "null":
		locations, err = c.DS.GetLocationsByParent(nil)
	case ctx.QueryParam("parentId") != "":
		parentID, parseErr := strconv.ParseUint(ctx.QueryParam("parentId"), 10, 32)
		if parseErr != nil {
			return c.HandleError(ctx, parseErr, "invalid parentId filter", http.StatusBadRequest)
		}
		id := uint(parentID)
		locations, err = c.DS.GetLocationsByParent(&id)
	default:
		locations, err = c.DS.GetAllLocations()
	}
	if err != nil {
		return c.handleDomainError(ctx, err, "Failed to get locations")
	}

	response := make([]locationResponse, 0, len(locations))
	for i := range locations {
		response = append(response, toLocationResponse(&locations[i]))
	}
	return ctx.JSON(http.StatusOK, response)
}

// hierarchyNode is one node of the hierarchy response tree.
type hierarchyNode struct {
	locationResponse
	FullPath string           `json:"fullPath"`
	Children []*hierarchyNode `json:"children,omitempty"`
}

func toHierarchyNode(node *datastore.LocationWithPath) *hierarchyNode {
	out := &hierarchyNode{
		locationResponse: toLocationResponse(&node.Location),
		FullPath:         node.FullPath,
	}
	for _, child := range node.Children {
		out.Children = append(out.Children, toHierarchyNode(child))
	}
	return out
}

// GetLocationHierarchy returns the whole location forest with full paths.
func (c *Controller) GetLocationHierarchy(ctx echo.Context) error {
	roots, err := c.DS.GetLocationHierarchy()
	if err != nil {
		return c.handleDomainError(ctx, err, "Failed to get location hierarchy")
	}

	response := make([]*hierarchyNode, 0, len(roots))
	for _, root := range roots {
		response = append(response, toHierarchyNode(root))
	}
	return ctx.JSON(http.StatusOK, response)
}

// createLocationRequest is the POST /locations payload.
type createLocationRequest struct {
	Name     string `json:"name"`
	Level    int    `json:"level"`
	ParentID *uint  `json:"parentId"`
}

// CreateLocation creates one location node explicitly, outside the CSV
// import path.
func (c *Controller) CreateLocation(ctx echo.Context) error {
	var req createLocationRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	location := datastore.Location{
		Name:     req.Name,
		Level:    req.Level,
		ParentID: req.ParentID,
	}
	if err := c.DS.CreateLocation(&location); err != nil {
		return c.handleDomainError(ctx, err, "Failed to create location")
	}

	response := toLocationResponse(&location)
	return ctx.JSON(http.StatusCreated, response)
}

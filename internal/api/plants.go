// internal/api/plants.go
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tphakala/plantarium-go/internal/datastore"
	"github.com/tphakala/plantarium-go/internal/queryview"
)

// initPlantRoutes registers the plant catalog endpoints
func (c *Controller) initPlantRoutes() {
	c.Group.GET("/plants", c.GetPlants)
	c.Group.GET("/plants/:id", c.GetPlant)
	c.Group.POST("/plants", c.CreatePlant)
	c.Group.PATCH("/plants/:id", c.UpdatePlant)
	c.Group.DELETE("/plants/:id", c.DeletePlant)
}

// parseLocationID reads an optional numeric query parameter, accepting both
// the locationId and zoneId spellings.
func parseLocationID(ctx echo.Context) (*uint, error) {
	raw := ctx.QueryParam("locationId")
	if raw == "" {
		raw = ctx.QueryParam("zoneId")
	}
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, err
	}
	locationID := uint(id)
	return &locationID, nil
}

// GetPlants lists plants matching the query filters. All filters combine
// conjunctively: search, status, locationId/zoneId, floor, mainZone, subZone.
func (c *Controller) GetPlants(ctx echo.Context) error {
	query := &queryview.PlantQuery{
		Floor:    ctx.QueryParam("floor"),
		MainZone: ctx.QueryParam("mainZone"),
		SubZone:  ctx.QueryParam("subZone"),
	}
	query.Search = ctx.QueryParam("search")

	if status := ctx.QueryParam("status"); status != "" {
		if !datastore.ValidStatus(status) {
			return c.HandleError(ctx, nil, "invalid status filter: "+status, http.StatusBadRequest)
		}
		query.Status = status
	}

	locationID, err := parseLocationID(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "invalid location id", http.StatusBadRequest)
	}
	query.LocationID = locationID

	plants, err := c.View.PlantsWithPath(query)
	if err != nil {
		return c.handleDomainError(ctx, err, "Failed to get plants")
	}
	return ctx.JSON(http.StatusOK, plants)
}

// GetPlant returns a single plant by id.
func (c *Controller) GetPlant(ctx echo.Context) error {
	plant, err := c.View.Plant(ctx.Param("id"))
	if err != nil {
		return c.handleDomainError(ctx, err, "Failed to get plant")
	}
	return ctx.JSON(http.StatusOK, plant)
}

// createPlantRequest is the POST /plants payload.
type createPlantRequest struct {
	ID         string  `json:"id"`
	Species    string  `json:"species"`
	LocationID *uint   `json:"locationId"`
	Status     string  `json:"status"`
	Notes      *string `json:"notes"`
}

// CreatePlant creates a plant record. Duplicate ids are a conflict, the
// replace-on-reimport path is the CSV import only.
func (c *Controller) CreatePlant(ctx echo.Context) error {
	var req createPlantRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	if req.LocationID != nil {
		if _, err := c.DS.GetLocation(*req.LocationID); err != nil {
			return c.HandleError(ctx, err, "Location does not exist", http.StatusBadRequest)
		}
	}

	plant := datastore.Plant{
		ID:         req.ID,
		Species:    req.Species,
		LocationID: req.LocationID,
		Status:     req.Status,
		Notes:      req.Notes,
	}
	if err := c.DS.CreatePlant(&plant); err != nil {
		return c.handleDomainError(ctx, err, "Failed to create plant")
	}

	created, err := c.View.Plant(plant.ID)
	if err != nil {
		return c.handleDomainError(ctx, err, "Failed to load created plant")
	}
	return ctx.JSON(http.StatusCreated, created)
}

// updatePlantRequest is the PATCH /plants/:id payload. Absent fields stay
// untouched; locationId 0 clears the assignment.
type updatePlantRequest struct {
	Species    *string `json:"species"`
	LocationID *uint   `json:"locationId"`
	Status     *string `json:"status"`
	Notes      *string `json:"notes"`
}

// UpdatePlant applies a partial update to a plant.
func (c *Controller) UpdatePlant(ctx echo.Context) error {
	var req updatePlantRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	patch := datastore.PlantPatch{
		Species:    req.Species,
		LocationID: req.LocationID,
		Status:     req.Status,
		Notes:      req.Notes,
	}
	if _, err := c.DS.UpdatePlant(ctx.Param("id"), &patch); err != nil {
		return c.handleDomainError(ctx, err, "Failed to update plant")
	}

	updated, err := c.View.Plant(ctx.Param("id"))
	if err != nil {
		return c.handleDomainError(ctx, err, "Failed to load updated plant")
	}
	return ctx.JSON(http.StatusOK, updated)
}

// DeletePlant removes a plant by id.
func (c *Controller) DeletePlant(ctx echo.Context) error {
	deleted, err := c.DS.DeletePlant(ctx.Param("id"))
	if err != nil {
		return c.handleDomainError(ctx, err, "Failed to delete plant")
	}
	if !deleted {
		return c.HandleError(ctx, nil, "Plant not found", http.StatusNotFound)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// internal/api/zones.go
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// initZoneRoutes registers the derived zone name endpoints
func (c *Controller) initZoneRoutes() {
	c.Group.GET("/zones", c.GetZones)
	c.Group.GET("/floors", c.GetFloors)
	c.Group.GET("/main-zones", c.GetMainZones)
	c.Group.GET("/sub-zones", c.GetSubZones)
}

// GetZones returns every location node flattened with its full path and
// first three path segments.
func (c *Controller) GetZones(ctx echo.Context) error {
	zones, err := c.View.Zones()
	if err != nil {
		return c.handleDomainError(ctx, err, "Failed to get zones")
	}
	return ctx.JSON(http.StatusOK, zones)
}

// GetFloors returns the sorted distinct floor names.
func (c *Controller) GetFloors(ctx echo.Context) error {
	floors, err := c.View.Floors()
	if err != nil {
		return c.handleDomainError(ctx, err, "Failed to get floors")
	}
	return ctx.JSON(http.StatusOK, floors)
}

// GetMainZones returns the sorted distinct main zone names, optionally
// filtered by floor.
func (c *Controller) GetMainZones(ctx echo.Context) error {
	zones, err := c.View.MainZones(ctx.QueryParam("floor"))
	if err != nil {
		return c.handleDomainError(ctx, err, "Failed to get main zones")
	}
	return ctx.JSON(http.StatusOK, zones)
}

// GetSubZones returns the sorted distinct sub-zone names, optionally
// filtered by floor and main zone.
func (c *Controller) GetSubZones(ctx echo.Context) error {
	zones, err := c.View.SubZones(ctx.QueryParam("floor"), ctx.QueryParam("mainZone"))
	if err != nil {
		return c.handleDomainError(ctx, err, "Failed to get sub-zones")
	}
	return ctx.JSON(http.StatusOK, zones)
}

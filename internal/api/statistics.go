// internal/api/statistics.go
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const statisticsCacheKey = "statistics"

// initStatisticsRoutes registers the statistics endpoint
func (c *Controller) initStatisticsRoutes() {
	c.Group.GET("/statistics", c.GetStatistics)
}

// statisticsResponse aggregates catalog totals and per-status counts.
type statisticsResponse struct {
	TotalPlants    int64            `json:"totalPlants"`
	TotalLocations int64            `json:"totalLocations"`
	PlantsByStatus map[string]int64 `json:"plantsByStatus"`
}

// GetStatistics returns catalog totals, cached briefly since the counts
// only move on imports and catalog writes.
func (c *Controller) GetStatistics(ctx echo.Context) error {
	if cached, found := c.statsCache.Get(statisticsCacheKey); found {
		if stats, ok := cached.(statisticsResponse); ok {
			return ctx.JSON(http.StatusOK, stats)
		}
	}

	totalPlants, err := c.DS.CountPlants()
	if err != nil {
		return c.handleDomainError(ctx, err, "Failed to get statistics")
	}
	totalLocations, err := c.DS.CountLocations()
	if err != nil {
		return c.handleDomainError(ctx, err, "Failed to get statistics")
	}
	byStatus, err := c.DS.CountPlantsByStatus()
	if err != nil {
		return c.handleDomainError(ctx, err, "Failed to get statistics")
	}

	stats := statisticsResponse{
		TotalPlants:    totalPlants,
		TotalLocations: totalLocations,
		PlantsByStatus: byStatus,
	}
	c.statsCache.SetDefault(statisticsCacheKey, stats)

	return ctx.JSON(http.StatusOK, stats)
}

// internal/api/importcsv.go
package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tphakala/plantarium-go/internal/importer"
)

// initImportRoutes registers the CSV import endpoint
func (c *Controller) initImportRoutes() {
	c.Group.POST("/import-csv", c.ImportCSV)
}

// importResponse is the POST /import-csv response body.
type importResponse struct {
	Message         string              `json:"message"`
	BatchID         string              `json:"batchId"`
	ImportedRecords int                 `json:"importedRecords"`
	NodesCreated    int                 `json:"nodesCreated"`
	Errors          []importer.RowError `json:"errors,omitempty"`
}

// ImportCSV ingests a multipart CSV upload, materializes the location
// hierarchy and upserts the plant records in one batch.
func (c *Controller) ImportCSV(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("csvFile")
	if err != nil {
		return c.HandleError(ctx, err, "Missing csvFile upload", http.StatusBadRequest)
	}

	if max := c.Settings.Import.MaxFileSize; max > 0 && fileHeader.Size > max {
		return c.HandleError(ctx,
			fmt.Errorf("file size %d exceeds limit %d", fileHeader.Size, max),
			"CSV file too large", http.StatusRequestEntityTooLarge)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.HandleError(ctx, err, "Failed to open upload", http.StatusBadRequest)
	}
	defer func() { _ = file.Close() }()

	rows, err := importer.ParseCSV(file)
	if err != nil {
		return c.handleDomainError(ctx, err, "Failed to parse CSV file")
	}

	summary, err := c.Importer.Import(rows)
	if err != nil {
		return c.handleDomainError(ctx, err, "CSV import failed")
	}

	if c.metrics != nil {
		c.metrics.RecordImport(summary.ImportedRecords, summary.NodesCreated, len(summary.Errors))
	}
	// Totals changed, next statistics call recomputes
	c.statsCache.Delete(statisticsCacheKey)

	message := fmt.Sprintf("Imported %d records", summary.ImportedRecords)
	if len(summary.Errors) > 0 {
		message = fmt.Sprintf("Imported %d records, %d rows failed", summary.ImportedRecords, len(summary.Errors))
	}

	return ctx.JSON(http.StatusOK, importResponse{
		Message:         message,
		BatchID:         summary.BatchID,
		ImportedRecords: summary.ImportedRecords,
		NodesCreated:    summary.NodesCreated,
		Errors:          summary.Errors,
	})
}

// materializer.go: turns flat import rows into the location tree and the
// plant catalog inside a single database transaction.
package importer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/tphakala/plantarium-go/internal/conf"
	"github.com/tphakala/plantarium-go/internal/datastore"
	"github.com/tphakala/plantarium-go/internal/errors"
	"github.com/tphakala/plantarium-go/internal/logging"
)

// RowError records a failure of one import row.
type RowError struct {
	Line    int    `json:"line"`
	PlantID string `json:"plantId,omitempty"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	if e.PlantID != "" {
		return fmt.Sprintf("line %d (plant %s): %s", e.Line, e.PlantID, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Summary reports the outcome of one import batch.
type Summary struct {
	BatchID         string     `json:"batchId"`
	ImportedRecords int        `json:"importedRecords"`
	NodesCreated    int        `json:"nodesCreated"`
	Errors          []RowError `json:"errors,omitempty"`
}

// Materializer imports normalized rows into the datastore. Each batch runs
// in one transaction; in tolerant mode failing rows are isolated with
// savepoints and collected, in strict mode the first failure rolls back
// the whole batch.
type Materializer struct {
	ds     datastore.Interface
	strict bool
	logger *slog.Logger
}

// New returns a Materializer configured from the import settings.
func New(ds datastore.Interface, settings *conf.Settings) *Materializer {
	logger := logging.ForService("importer")
	if logger == nil {
		logger = slog.Default()
	}
	return &Materializer{
		ds:     ds,
		strict: settings.Import.Strict,
		logger: logger,
	}
}

// batchState is the per-batch dedup cache: full path key to node id. The
// cache never outlives its transaction, concurrent batches do not share it.
// rowCreated lists the keys inserted by the row currently being processed,
// so a per-row rollback can evict exactly those.
type batchState struct {
	nodeByPath map[string]uint
	rowCreated []string
}

// Import runs one batch of rows. The returned Summary is non-nil whenever
// the batch committed; in strict mode a row failure aborts the transaction
// and is returned as the error instead.
func (m *Materializer) Import(rows []Row) (*Summary, error) {
	summary := &Summary{BatchID: uuid.New().String()}

	err := m.ds.Transaction(func(tx datastore.Interface) error {
		state := &batchState{nodeByPath: make(map[string]uint)}

		for i, row := range rows {
			if m.strict {
				if err := m.importRow(tx, state, row, summary); err != nil {
					// Storage failures keep their category so the API maps
					// them to 500 rather than treating them as bad input
					category := errors.CategoryImport
					if errors.IsCategory(err, errors.CategoryDatabase) {
						category = errors.CategoryDatabase
					}
					return errors.New(fmt.Errorf("line %d: %w", row.Line, err)).
						Component("importer").
						Category(category).
						Context("line", row.Line).
						Context("batch_id", summary.BatchID).
						Build()
				}
				continue
			}

			savepoint := fmt.Sprintf("import_row_%d", i)
			if err := tx.SavePoint(savepoint); err != nil {
				return err
			}
			created, imported := summary.NodesCreated, summary.ImportedRecords
			if err := m.importRow(tx, state, row, summary); err != nil {
				if rbErr := tx.RollbackTo(savepoint); rbErr != nil {
					return rbErr
				}
				// The rollback undid the nodes this row inserted, drop
				// exactly those from the cache. Prefixes created by
				// earlier rows were committed past their own savepoints
				// and their cached ids stay valid.
				for _, key := range state.rowCreated {
					delete(state.nodeByPath, key)
				}
				summary.NodesCreated, summary.ImportedRecords = created, imported
				summary.Errors = append(summary.Errors, RowError{
					Line:    row.Line,
					PlantID: row.PlantID,
					Message: err.Error(),
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("import batch finished",
		"batch_id", summary.BatchID,
		"rows", len(rows),
		"imported_records", summary.ImportedRecords,
		"nodes_created", summary.NodesCreated,
		"row_errors", len(summary.Errors))

	return summary, nil
}

// importRow materializes one row: walk the compressed segment list creating
// or reusing one node per path prefix, then upsert the plant record bound to
// the deepest node. Rows without both plant id and species still contribute
// their location chain but produce no plant record.
func (m *Materializer) importRow(tx datastore.Interface, state *batchState, row Row, summary *Summary) error {
	segments := compressSegments(row.Segments)
	state.rowCreated = state.rowCreated[:0]

	var parentID *uint
	var deepestID *uint
	pathKey := ""

	for k, segment := range segments {
		if k == 0 {
			pathKey = segment
		} else {
			pathKey += datastore.PathSeparator + segment
		}

		if id, ok := state.nodeByPath[pathKey]; ok {
			nodeID := id
			deepestID = &nodeID
			parentID = &nodeID
			continue
		}

		location := datastore.Location{
			Name:     segment,
			Level:    k + 1,
			ParentID: parentID,
		}
		if err := tx.CreateLocation(&location); err != nil {
			return err
		}
		state.nodeByPath[pathKey] = location.ID
		state.rowCreated = append(state.rowCreated, pathKey)

		nodeID := location.ID
		deepestID = &nodeID
		parentID = &nodeID
		summary.NodesCreated++
	}

	if row.PlantID == "" || row.Species == "" {
		return nil
	}

	plant := datastore.Plant{
		ID:         row.PlantID,
		Species:    row.Species,
		LocationID: deepestID,
		Status:     string(datastore.StatusHealthy),
	}
	if err := tx.SavePlant(&plant); err != nil {
		return err
	}
	summary.ImportedRecords++
	return nil
}

// compressSegments trims each segment and drops the blanks, preserving
// order. Gaps compress: a row with floor and pot type but nothing between
// yields a two-segment chain.
func compressSegments(raw []string) []string {
	segments := make([]string, 0, len(raw))
	for _, segment := range raw {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}

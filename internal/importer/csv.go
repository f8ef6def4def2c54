// csv.go: parsing of the import spreadsheet into normalized rows
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/tphakala/plantarium-go/internal/errors"
)

// Row is one normalized import record: the plant fields plus the location
// path segments in rank order, blanks included. Line is the 1-based source
// line for error reporting.
type Row struct {
	Line     int
	PlantID  string
	Species  string
	Segments []string
}

// ParseCSV reads a comma-separated, UTF-8 spreadsheet with a header row and
// returns its normalized rows. Header spellings fold through CanonicalHeader,
// the ID and species columns are mandatory.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// Rows may legitimately be shorter than the header when trailing
	// location columns are blank
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, parseError("csv file is empty", nil)
	}
	if err != nil {
		return nil, parseError("reading csv header", err)
	}

	columns := make(map[string]int, len(header))
	for i, cell := range header {
		if i == 0 {
			// Spreadsheets exported on Windows often carry a UTF-8 BOM
			cell = strings.TrimPrefix(cell, "\uFEFF")
		}
		columns[CanonicalHeader(cell)] = i
	}

	for _, required := range []string{ColPlantID, ColSpecies} {
		if _, ok := columns[required]; !ok {
			return nil, parseError(fmt.Sprintf("missing required column %s", required), nil)
		}
	}

	field := func(record []string, column string) string {
		idx, ok := columns[column]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseError(fmt.Sprintf("reading csv line %d", line), err)
		}

		segments := make([]string, 0, len(locationColumns))
		for _, column := range locationColumns {
			segments = append(segments, field(record, column))
		}

		rows = append(rows, Row{
			Line:     line,
			PlantID:  field(record, ColPlantID),
			Species:  field(record, ColSpecies),
			Segments: segments,
		})
	}

	return rows, nil
}

func parseError(msg string, err error) error {
	builder := errors.Newf("%s", msg)
	if err != nil {
		builder = errors.New(fmt.Errorf("%s: %w", msg, err))
	}
	return builder.
		Component("importer").
		Category(errors.CategoryFileParsing).
		Build()
}

// Package report renders a finished run: the tabular record file and the
// human-readable console report.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/san-kum/glucosim/internal/loop"
)

// Header is the fixed column order of the record table.
var Header = []string{"Time", "CGM", "Meal", "Insulin_Basal", "Insulin_Bolus"}

// CSVFile persists a record table to a single CSV file, overwriting any
// existing file at that path. It implements loop.RecordWriter.
type CSVFile struct {
	Path string
}

func NewCSVFile(path string) *CSVFile {
	return &CSVFile{Path: path}
}

// WriteRecords writes the header plus one row per record. The file is
// only created when called, so an aborted run leaves no partial output.
func (c *CSVFile) WriteRecords(recs []loop.StepRecord) error {
	f, err := os.Create(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return err
	}
	for _, r := range recs {
		row := []string{
			r.Time,
			formatFloat(r.CGM),
			formatFloat(r.Meal),
			formatFloat(r.Basal),
			formatFloat(r.Bolus),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Sync()
}

// ReadCSV parses a record table previously written by WriteRecords,
// preserving row order.
func ReadCSV(path string) ([]loop.StepRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("report: %s has no header row", path)
	}

	recs := make([]loop.StepRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < len(Header) {
			return nil, fmt.Errorf("report: row %d has %d columns, want %d", i+1, len(row), len(Header))
		}
		rec := loop.StepRecord{Time: row[0]}
		vals := make([]float64, 4)
		for j := 0; j < 4; j++ {
			v, err := strconv.ParseFloat(row[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("report: row %d col %s: %w", i+1, Header[j+1], err)
			}
			vals[j] = v
		}
		rec.CGM, rec.Meal, rec.Basal, rec.Bolus = vals[0], vals[1], vals[2], vals[3]
		recs = append(recs, rec)
	}
	return recs, nil
}

// formatFloat uses the shortest representation that reparses exactly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

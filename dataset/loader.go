// Package dataset loads the heart disease training data from its
// headerless CSV form.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"heartguard/patient"
)

// LoadError reports a missing or malformed dataset file.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load dataset %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Stats summarizes one load pass.
type Stats struct {
	Rows    int // usable rows
	Dropped int // rows with '?' or non-numeric cells
}

// Load reads the UCI heart CSV: 13 feature columns in schema order
// plus a trailing multi-valued target column. The file carries no
// header. Rows containing '?' or non-numeric cells are dropped, the
// target is binarized (any nonzero value means disease present).
func Load(path string) ([]patient.Record, []int, Stats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, Stats{}, &LoadError{Path: path, Err: err}
	}
	defer file.Close()
	return parse(path, file)
}

func parse(path string, r io.Reader) ([]patient.Record, []int, Stats, error) {
	columnCount := len(patient.FeatureNames()) + 1

	// Spreadsheet exports of the dataset sometimes carry a BOM.
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	reader.FieldsPerRecord = columnCount
	reader.TrimLeadingSpace = true

	var (
		records []patient.Record
		labels  []int
		stats   Stats
	)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, Stats{}, &LoadError{Path: path, Err: err}
		}

		values, ok := parseRow(row)
		if !ok {
			stats.Dropped++
			continue
		}

		record, err := patient.FromVector(values[:columnCount-1])
		if err != nil {
			return nil, nil, Stats{}, &LoadError{Path: path, Err: err}
		}
		records = append(records, record)
		labels = append(labels, binarize(values[columnCount-1]))
		stats.Rows++
	}

	if len(records) == 0 {
		return nil, nil, Stats{}, &LoadError{Path: path, Err: fmt.Errorf("no usable rows (%d dropped)", stats.Dropped)}
	}
	return records, labels, stats, nil
}

// parseRow converts one CSV row to floats. A '?' cell or any cell that
// does not parse marks the whole row unusable.
func parseRow(row []string) ([]float64, bool) {
	values := make([]float64, len(row))
	for i, cell := range row {
		if cell == "?" || cell == "" {
			return nil, false
		}
		value, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, false
		}
		values[i] = value
	}
	return values, true
}

// binarize collapses the multi-valued source target: 0 stays absent,
// everything else is disease present.
func binarize(target float64) int {
	if target > 0 {
		return 1
	}
	return 0
}

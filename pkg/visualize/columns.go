// Package visualize renders exploratory plots of a cleaned feature table.
package visualize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"matfeat/pkg/data"
)

// ErrNoNumericColumns is returned when a table has nothing to plot.
var ErrNoNumericColumns = errors.New("no numeric columns to plot")

// Column is one numeric table column. Missing cells are NaN.
type Column struct {
	Name   string
	Values []float64
}

// NumericColumns returns the integer and float typed columns of t in table
// order. Column types are detected the way a dataframe loader does, so a
// column of booleans or with any text cell is excluded. A table without rows
// has no numeric columns.
func NumericColumns(t *data.Table) ([]Column, error) {
	if len(t.Records) == 0 {
		return nil, nil
	}
	records := make([][]string, 0, len(t.Records)+1)
	records = append(records, t.Columns)
	for _, rec := range t.Records {
		row := make([]string, len(rec))
		for i, v := range rec {
			if data.IsMissing(v) {
				row[i] = "NaN"
				continue
			}
			row[i] = strings.TrimSpace(v)
		}
		records = append(records, row)
	}

	df := dataframe.LoadRecords(records)
	if df.Err != nil {
		return nil, fmt.Errorf("load dataframe: %w", df.Err)
	}

	var cols []Column
	names := df.Names()
	for i, typ := range df.Types() {
		if typ != series.Int && typ != series.Float {
			continue
		}
		cols = append(cols, Column{Name: names[i], Values: df.Col(names[i]).Float()})
	}
	return cols, nil
}

// Package data holds the feature table shared by the featurize, clean and
// visualize stages, and its CSV and spreadsheet encodings.
package data

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Table is a header plus string records. Missing cells are empty strings
// (or one of the tokens recognised by IsMissing when read from disk).
type Table struct {
	Columns []string
	Records [][]string
}

// FromRows builds a table whose columns are the union of row feature names in
// first-appearance order, followed by the filename column. Absent features and
// NaN values are written as empty cells.
func FromRows(rows []*Row) *Table {
	seen := make(map[string]int)
	var columns []string
	for _, r := range rows {
		for _, name := range r.names {
			if _, ok := seen[name]; !ok {
				seen[name] = len(columns)
				columns = append(columns, name)
			}
		}
	}
	fileIdx := len(columns)
	columns = append(columns, FilenameColumn)

	records := make([][]string, len(rows))
	for i, r := range rows {
		rec := make([]string, len(columns))
		for name, v := range r.values {
			rec[seen[name]] = FormatFloat(v)
		}
		rec[fileIdx] = r.Filename
		records[i] = rec
	}
	return &Table{Columns: columns, Records: records}
}

// Shape returns the number of rows and columns.
func (t *Table) Shape() (rows, cols int) { return len(t.Records), len(t.Columns) }

// Index returns the position of column name, or -1.
func (t *Table) Index(name string) int { return slices.Index(t.Columns, name) }

// Column returns a copy of the cells of column c.
func (t *Table) Column(c int) []string {
	out := make([]string, len(t.Records))
	for i, rec := range t.Records {
		out[i] = rec[c]
	}
	return out
}

// Floats parses column c. Missing cells become NaN. ok is false when a
// non-missing cell is not a number.
func (t *Table) Floats(c int) (vals []float64, ok bool) {
	return ParseFloats(t.Column(c))
}

// ParseFloats parses cells the way Floats does.
func ParseFloats(cells []string) ([]float64, bool) {
	vals := make([]float64, len(cells))
	for i, v := range cells {
		if IsMissing(v) {
			vals[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, false
		}
		vals[i] = f
	}
	return vals, true
}

// MissingCount returns the number of missing cells in column c.
func (t *Table) MissingCount(c int) int {
	n := 0
	for _, rec := range t.Records {
		if IsMissing(rec[c]) {
			n++
		}
	}
	return n
}

// TotalMissing returns the number of missing cells in the whole table.
func (t *Table) TotalMissing() int {
	n := 0
	for c := range t.Columns {
		n += t.MissingCount(c)
	}
	return n
}

// DropColumns returns a copy of the table without the named columns.
func (t *Table) DropColumns(names ...string) *Table {
	keep := make([]int, 0, len(t.Columns))
	for c, name := range t.Columns {
		if !slices.Contains(names, name) {
			keep = append(keep, c)
		}
	}
	out := &Table{Columns: make([]string, len(keep)), Records: make([][]string, len(t.Records))}
	for j, c := range keep {
		out.Columns[j] = t.Columns[c]
	}
	for i, rec := range t.Records {
		row := make([]string, len(keep))
		for j, c := range keep {
			row[j] = rec[c]
		}
		out.Records[i] = row
	}
	return out
}

// FilterRows returns a copy holding only the records for which keep is true.
func (t *Table) FilterRows(keep func(rec []string) bool) *Table {
	out := &Table{Columns: slices.Clone(t.Columns)}
	for _, rec := range t.Records {
		if keep(rec) {
			out.Records = append(out.Records, slices.Clone(rec))
		}
	}
	return out
}

// missingTokens are the cell values read as missing. Matching is case-sensitive
// so that element symbols like "Na" stay text.
var missingTokens = []string{"", "NA", "N/A", "n/a", "NaN", "nan", "-NaN", "-nan", "NULL", "null", "None", "<NA>", "#N/A"}

// IsMissing reports whether a cell holds no value.
func IsMissing(v string) bool {
	return slices.Contains(missingTokens, strings.TrimSpace(v))
}

// FormatFloat renders a value for a table cell; NaN becomes an empty cell.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

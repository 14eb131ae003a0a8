// Package dataprep cleans feature tables: columns with too many missing cells
// are dropped and the remaining gaps are filled or removed.
package dataprep

import (
	"fmt"
	"io"
	"slices"

	"go.uber.org/zap"

	"matfeat/pkg/data"
)

// ColumnMissing is the missing-cell count of one column.
type ColumnMissing struct {
	Column   string
	Count    int
	Fraction float64
}

// Report summarizes a cleaning pass.
type Report struct {
	Rows, Cols int
	// Missing lists columns with at least one missing cell, in table order.
	Missing   []ColumnMissing
	Threshold float64
	Dropped   []string
	Fill      FillMethod
	// RowsRemoved is set by FillNone.
	RowsRemoved int
	// RemainingMissing counts cells still empty after filling, e.g. in
	// non-numeric columns, which mean and median leave alone.
	RemainingMissing     int
	FinalRows, FinalCols int
}

// Fprint writes the report in a human-readable form.
func (r *Report) Fprint(w io.Writer) {
	fmt.Fprintf(w, "Loaded data: %d rows, %d columns\n", r.Rows, r.Cols)
	if len(r.Missing) == 0 {
		fmt.Fprintln(w, "No missing values")
	} else {
		fmt.Fprintln(w, "Missing values per column:")
		for _, m := range r.Missing {
			fmt.Fprintf(w, "  %s: %d\n", m.Column, m.Count)
		}
	}
	if len(r.Dropped) > 0 {
		fmt.Fprintf(w, "Dropping %d columns with >%.1f%% missing values: %v\n", len(r.Dropped), r.Threshold*100, r.Dropped)
	} else {
		fmt.Fprintln(w, "No columns dropped")
	}
	if r.Fill == FillNone {
		fmt.Fprintf(w, "Removed %d rows with missing values\n", r.RowsRemoved)
	} else {
		fmt.Fprintf(w, "Filled missing values with column %s\n", r.Fill)
	}
	fmt.Fprintf(w, "Remaining missing values: %d\n", r.RemainingMissing)
	fmt.Fprintf(w, "Cleaned data: %d rows, %d columns\n", r.FinalRows, r.FinalCols)
}

// Clean applies p to t and returns a new table. t is not modified.
func Clean(t *data.Table, p Policy) (*data.Table, *Report, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	fill, _ := ParseFillMethod(string(p.Fill))

	rows, cols := t.Shape()
	rep := &Report{Rows: rows, Cols: cols, Threshold: p.NaNThreshold, Fill: fill}

	var drop []string
	for c, name := range t.Columns {
		n := t.MissingCount(c)
		if n == 0 {
			continue
		}
		frac := float64(n) / float64(rows)
		rep.Missing = append(rep.Missing, ColumnMissing{Column: name, Count: n, Fraction: frac})
		if frac > p.NaNThreshold {
			drop = append(drop, name)
		}
	}
	rep.Dropped = drop
	out := t.DropColumns(drop...)

	switch fill {
	case FillNone:
		before := len(out.Records)
		out = out.FilterRows(func(rec []string) bool {
			return !slices.ContainsFunc(rec, data.IsMissing)
		})
		rep.RowsRemoved = before - len(out.Records)
	case FillMean, FillMedian:
		impute := ImputeMean
		if fill == FillMedian {
			impute = ImputeMedian
		}
		for _, name := range data.InferSchema(out).NumericColumns() {
			c := out.Index(name)
			if out.MissingCount(c) == 0 {
				continue
			}
			filled := impute(out.Column(c))
			for i, rec := range out.Records {
				rec[c] = filled[i]
			}
		}
	}

	rep.RemainingMissing = out.TotalMissing()
	rep.FinalRows, rep.FinalCols = out.Shape()
	return out, rep, nil
}

// CleanFile loads inputPath, cleans it and saves the result to outputPath.
// An invalid policy fails before anything is read or written.
func CleanFile(inputPath, outputPath string, p Policy, logger *zap.Logger) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	t, err := data.Load(inputPath)
	if err != nil {
		return nil, fmt.Errorf("load features: %w", err)
	}
	cleaned, rep, err := Clean(t, p)
	if err != nil {
		return nil, err
	}

	logger.Info("loaded features", zap.String("input", inputPath), zap.Int("rows", rep.Rows), zap.Int("cols", rep.Cols))
	if len(rep.Missing) == 0 {
		logger.Info("no missing values")
	}
	for _, m := range rep.Missing {
		logger.Info("missing values", zap.String("column", m.Column), zap.Int("count", m.Count), zap.Float64("fraction", m.Fraction))
	}
	if len(rep.Dropped) > 0 {
		logger.Info("dropped sparse columns", zap.Strings("columns", rep.Dropped), zap.Float64("threshold", p.NaNThreshold))
	} else {
		logger.Info("no columns dropped", zap.Float64("threshold", p.NaNThreshold))
	}
	logger.Info("remaining missing values", zap.Int("remaining_missing", rep.RemainingMissing))
	if rep.RemainingMissing > 0 {
		logger.Warn("missing values remain after cleaning", zap.Int("missing", rep.RemainingMissing), zap.String("fill", string(rep.Fill)))
	}

	if err := data.Save(outputPath, cleaned); err != nil {
		return rep, fmt.Errorf("write cleaned features: %w", err)
	}
	logger.Info("cleaned features saved", zap.String("output", outputPath), zap.Int("rows", rep.FinalRows), zap.Int("cols", rep.FinalCols))
	return rep, nil
}

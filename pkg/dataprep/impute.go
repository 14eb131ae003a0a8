package dataprep

import (
	"matfeat/pkg/data"
	"matfeat/pkg/stats"
)

// ImputeMean replaces missing cells of a numeric column with the mean of the
// present values. A column with no values is left unchanged.
func ImputeMean(col []string) []string {
	return imputeWith(col, stats.Mean)
}

// ImputeMedian replaces missing cells of a numeric column with the median of
// the present values.
func ImputeMedian(col []string) []string {
	return imputeWith(col, stats.Median)
}

func imputeWith(col []string, stat func([]float64) (float64, error)) []string {
	vals, ok := data.ParseFloats(col)
	if !ok {
		return col
	}
	fill, err := stat(vals)
	if err != nil {
		return col
	}
	s := data.FormatFloat(fill)
	for i, v := range col {
		if data.IsMissing(v) {
			col[i] = s
		}
	}
	return col
}

// Package stats holds the missing-value aware summary statistics used by the
// cleaning and plotting stages. NaN marks a missing observation throughout.
package stats

import (
	"errors"
	"math"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrNoValues is returned when a column has no non-missing observations.
var ErrNoValues = errors.New("stats: no non-missing values")

// Present returns the non-NaN values of x.
func Present(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Mean computes the average of the non-missing values.
func Mean(x []float64) (float64, error) {
	vals := Present(x)
	if len(vals) == 0 {
		return math.NaN(), ErrNoValues
	}
	return mstats.Mean(vals)
}

// Median computes the median of the non-missing values.
func Median(x []float64) (float64, error) {
	vals := Present(x)
	if len(vals) == 0 {
		return math.NaN(), ErrNoValues
	}
	return mstats.Median(vals)
}

// MinMax returns the minimum and maximum non-missing values.
func MinMax(x []float64) (float64, float64) {
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range x {
		if math.IsNaN(v) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if math.IsInf(min, 1) {
		return math.NaN(), math.NaN()
	}
	return min, max
}

// Correlation computes the Pearson coefficient over pairs where both values are
// present. Fewer than two pairs, or a constant input, gives NaN.
func Correlation(x, y []float64) float64 {
	var xs, ys []float64
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsInf(r, 0) {
		return math.NaN()
	}
	return r
}

// CorrelationMatrix returns the symmetric matrix of pairwise correlations between columns.
func CorrelationMatrix(cols [][]float64) [][]float64 {
	n := len(cols)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := Correlation(cols[i], cols[j])
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			m[i][j], m[j][i] = r, r
		}
	}
	return m
}

// ScottBandwidth returns the Gaussian kernel bandwidth n^(-1/5) * sd.
func ScottBandwidth(x []float64) float64 {
	vals := Present(x)
	if len(vals) < 2 {
		return 0
	}
	return math.Pow(float64(len(vals)), -0.2) * stat.StdDev(vals, nil)
}

// GaussianKDE evaluates a Gaussian kernel density estimate of x at each point.
// It returns nil when the bandwidth degenerates (fewer than two values or zero spread).
func GaussianKDE(x, points []float64) []float64 {
	vals := Present(x)
	bw := ScottBandwidth(vals)
	if bw == 0 || math.IsNaN(bw) {
		return nil
	}
	kernel := distuv.Normal{Mu: 0, Sigma: bw}
	out := make([]float64, len(points))
	for i, p := range points {
		sum := 0.0
		for _, v := range vals {
			sum += kernel.Prob(p - v)
		}
		out[i] = sum / float64(len(vals))
	}
	return out
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

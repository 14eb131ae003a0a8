package visualize

import (
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"matfeat/pkg/stats"
)

const (
	maxDistributions = 6
	maxPairColumns   = 4
	histBins         = 20
	kdePoints        = 200
)

var kdeColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}

// Distributions draws a histogram with a density curve for each of the first
// six columns on a 2x3 grid. Unused cells stay blank.
func Distributions(cols []Column, path string) error {
	plots := newGrid(2, 3)
	for i := 0; i < maxDistributions; i++ {
		p := plots[i/3][i%3]
		if i >= len(cols) {
			p.HideAxes()
			continue
		}
		p.Title.Text = "Distribution of " + cols[i].Name
		p.X.Label.Text = cols[i].Name
		p.Y.Label.Text = "Density"
		if err := addHistogram(p, cols[i].Values, true); err != nil {
			return err
		}
	}
	return saveGrid(plots, 15*vg.Inch, 10*vg.Inch, path)
}

// addHistogram adds a histogram of the finite values. With density set the
// bars are normalised to unit area and a kernel density curve is overlaid.
func addHistogram(p *plot.Plot, values []float64, density bool) error {
	vals := finite(values)
	if len(vals) == 0 {
		return nil
	}
	lo, hi := stats.MinMax(vals)
	var h *plotter.Histogram
	if lo == hi {
		h = &plotter.Histogram{
			Bins:      []plotter.HistogramBin{{Min: lo - 0.5, Max: lo + 0.5, Weight: float64(len(vals))}},
			Width:     1,
			LineStyle: plotter.DefaultLineStyle,
		}
	} else {
		var err error
		if h, err = plotter.NewHist(plotter.Values(vals), histBins); err != nil {
			return err
		}
	}
	h.FillColor = color.RGBA{R: 31, G: 119, B: 180, A: 160}
	if !density {
		p.Add(h)
		return nil
	}
	h.Normalize(1)
	p.Add(h)

	xs := stats.Linspace(lo, hi, kdePoints)
	ys := stats.GaussianKDE(vals, xs)
	if ys == nil {
		return nil
	}
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	l.LineStyle.Color = kdeColor
	l.LineStyle.Width = vg.Points(1.5)
	p.Add(l)
	return nil
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ. Row 0 of the
// matrix is drawn at the top.
type corrGrid struct {
	m [][]float64
}

func (g corrGrid) Dims() (c, r int)   { return len(g.m), len(g.m) }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }
func (g corrGrid) Z(c, r int) float64 { return g.m[len(g.m)-1-r][c] }

// CorrelationHeatmap draws the Pearson correlation matrix of all columns on a
// diverging blue-red scale from -1 to 1, with each cell annotated.
func CorrelationHeatmap(cols []Column, path string) error {
	n := len(cols)
	values := make([][]float64, n)
	for i, c := range cols {
		values[i] = c.Values
	}
	m := stats.CorrelationMatrix(values)
	for i := range m {
		for j := range m[i] {
			if !math.IsNaN(m[i][j]) {
				m[i][j] = math.Max(-1, math.Min(1, m[i][j]))
			}
		}
	}

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)
	hm := plotter.NewHeatMap(corrGrid{m: m}, cmap.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 220}

	p := plot.New()
	p.Title.Text = "Feature Correlation Matrix"
	p.Add(hm)

	var (
		pts    plotter.XYs
		labels []string
		xticks = make([]plot.Tick, n)
		yticks = make([]plot.Tick, n)
	)
	for c := 0; c < n; c++ {
		xticks[c] = plot.Tick{Value: float64(c), Label: cols[c].Name}
		yticks[c] = plot.Tick{Value: float64(c), Label: cols[n-1-c].Name}
		for r := 0; r < n; r++ {
			v := m[n-1-r][c]
			label := ""
			if !math.IsNaN(v) {
				label = formatCorr(v)
			}
			pts = append(pts, plotter.XY{X: float64(c), Y: float64(r)})
			labels = append(labels, label)
		}
	}
	annot, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: labels})
	if err != nil {
		return err
	}
	fontSize := vg.Points(math.Max(3, math.Min(10, 240/float64(n))))
	for i := range annot.TextStyle {
		annot.TextStyle[i].XAlign = draw.XCenter
		annot.TextStyle[i].YAlign = draw.YCenter
		annot.TextStyle[i].Font.Size = fontSize
	}
	p.Add(annot)

	p.X.Tick.Marker = plot.ConstantTicks(xticks)
	p.Y.Tick.Marker = plot.ConstantTicks(yticks)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.Font.Size = fontSize
	p.Y.Tick.Label.Font.Size = fontSize
	p.X.Min, p.X.Max = -0.5, float64(n)-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(n)-0.5

	side := vg.Length(math.Max(600, math.Min(4000, 40*float64(n))))
	img := vgimg.New(side*1.2, side)
	p.Draw(draw.New(img))
	return writePNG(img, path)
}

func formatCorr(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// PairPlot draws a scatter matrix of the first four columns with histograms
// on the diagonal.
func PairPlot(cols []Column, path string) error {
	if len(cols) > maxPairColumns {
		cols = cols[:maxPairColumns]
	}
	k := len(cols)
	plots := newGrid(k, k)
	for r := 0; r < k; r++ {
		for c := 0; c < k; c++ {
			p := plots[r][c]
			if r == k-1 {
				p.X.Label.Text = cols[c].Name
			}
			if c == 0 {
				p.Y.Label.Text = cols[r].Name
			}
			if r == c {
				if err := addHistogram(p, cols[c].Values, false); err != nil {
					return err
				}
				continue
			}
			if err := addScatter(p, cols[c].Values, cols[r].Values); err != nil {
				return err
			}
		}
	}
	side := vg.Length(k) * 3 * vg.Inch
	return saveGrid(plots, side, side, path)
}

// addScatter plots the pairs where both values are present.
func addScatter(p *plot.Plot, xs, ys []float64) error {
	var pts plotter.XYs
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) || math.IsInf(xs[i], 0) || math.IsInf(ys[i], 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if len(pts) == 0 {
		return nil
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyle.Radius = vg.Points(2)
	s.GlyphStyle.Color = color.RGBA{R: 31, G: 119, B: 180, A: 200}
	p.Add(s)
	return nil
}

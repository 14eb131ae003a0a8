package visualize

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"matfeat/pkg/data"
)

const (
	DistributionsFile = "feature_distributions.png"
	HeatmapFile       = "correlation_heatmap.png"
	PairPlotFile      = "pairplot.png"
)

// Render loads the table at inputPath and writes the distribution grid, the
// correlation heatmap and the pair plot into outputDir, replacing any
// existing images.
func Render(inputPath, outputDir string) error {
	t, err := data.Load(inputPath)
	if err != nil {
		return fmt.Errorf("load table: %w", err)
	}
	return RenderTable(t, outputDir)
}

// RenderTable is Render for a table already in memory.
func RenderTable(t *data.Table, outputDir string) error {
	cols, err := NumericColumns(t)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return ErrNoNumericColumns
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create plot dir: %w", err)
	}

	if err := Distributions(cols, filepath.Join(outputDir, DistributionsFile)); err != nil {
		return fmt.Errorf("distributions: %w", err)
	}
	if err := CorrelationHeatmap(cols, filepath.Join(outputDir, HeatmapFile)); err != nil {
		return fmt.Errorf("correlation heatmap: %w", err)
	}
	if err := PairPlot(cols, filepath.Join(outputDir, PairPlotFile)); err != nil {
		return fmt.Errorf("pair plot: %w", err)
	}
	return nil
}

// newGrid returns rows x cols empty plots.
func newGrid(rows, cols int) [][]*plot.Plot {
	plots := make([][]*plot.Plot, rows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, cols)
		for c := range plots[r] {
			plots[r][c] = plot.New()
		}
	}
	return plots
}

// saveGrid lays the plots out on one canvas and writes it as a PNG.
func saveGrid(plots [][]*plot.Plot, width, height vg.Length, path string) error {
	img := vgimg.New(width, height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      len(plots[0]),
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, tiles, dc)
	for r := range plots {
		for c := range plots[r] {
			plots[r][c].Draw(canvases[r][c])
		}
	}
	return writePNG(img, path)
}

func writePNG(img *vgimg.Canvas, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

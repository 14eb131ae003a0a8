package visualize

import (
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matfeat/pkg/data"
)

func TestNumericColumns(t *testing.T) {
	tbl := &data.Table{
		Columns: []string{"count", "label", "flag", "empty", "density", "filename"},
		Records: [][]string{
			{"1", "0.5", "true", "", "1.5", "a.cif"},
			{"2", "x", "false", "", "NA", "b.cif"},
			{"", "1", "true", "", "2.5", "c.cif"},
		},
	}
	cols, err := NumericColumns(tbl)
	require.NoError(t, err)
	require.Len(t, cols, 2)

	assert.Equal(t, "count", cols[0].Name)
	assert.Equal(t, 1.0, cols[0].Values[0])
	assert.True(t, math.IsNaN(cols[0].Values[2]))

	assert.Equal(t, "density", cols[1].Name)
	assert.Equal(t, 2.5, cols[1].Values[2])
	assert.True(t, math.IsNaN(cols[1].Values[1]))
}

func featureTable(ncols, nrows int) *data.Table {
	tbl := &data.Table{}
	for c := 0; c < ncols; c++ {
		tbl.Columns = append(tbl.Columns, "f_"+strconv.Itoa(c))
	}
	tbl.Columns = append(tbl.Columns, data.FilenameColumn)
	for r := 0; r < nrows; r++ {
		rec := make([]string, 0, ncols+1)
		for c := 0; c < ncols; c++ {
			v := math.Sin(float64(r*(c+1))) + float64(c)
			rec = append(rec, data.FormatFloat(v))
		}
		rec = append(rec, "s"+strconv.Itoa(r)+".cif")
		tbl.Records = append(tbl.Records, rec)
	}
	return tbl
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Positive(t, img.Bounds().Dx())
	assert.Positive(t, img.Bounds().Dy())
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "features_cleaned.csv")
	require.NoError(t, data.Save(in, featureTable(8, 25)))
	out := filepath.Join(dir, "plots")

	require.NoError(t, Render(in, out))
	for _, name := range []string{DistributionsFile, HeatmapFile, PairPlotFile} {
		assertPNG(t, filepath.Join(out, name))
	}

	// A second run overwrites the images in place.
	require.NoError(t, Render(in, out))
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRenderTable_FewColumnsAndGaps(t *testing.T) {
	tbl := featureTable(2, 10)
	tbl.Records[3][0] = ""
	tbl.Columns = append(tbl.Columns, "constant")
	for i := range tbl.Records {
		tbl.Records[i] = append(tbl.Records[i], "7")
	}

	out := filepath.Join(t.TempDir(), "plots")
	require.NoError(t, RenderTable(tbl, out))
	assertPNG(t, filepath.Join(out, HeatmapFile))
	assertPNG(t, filepath.Join(out, PairPlotFile))
}

func TestRender_NoNumericColumns(t *testing.T) {
	tbl := &data.Table{
		Columns: []string{data.FilenameColumn},
		Records: [][]string{{"a.cif"}, {"b.cif"}},
	}
	out := filepath.Join(t.TempDir(), "plots")
	assert.ErrorIs(t, RenderTable(tbl, out), ErrNoNumericColumns)
	assert.NoDirExists(t, out)
}

func TestRender_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "features_cleaned.csv")
	require.NoError(t, data.Save(in, &data.Table{Columns: []string{"f_0", "f_1", data.FilenameColumn}}))

	cols, err := NumericColumns(&data.Table{Columns: []string{"f_0"}})
	require.NoError(t, err)
	assert.Empty(t, cols)
	assert.ErrorIs(t, Render(in, filepath.Join(dir, "plots")), ErrNoNumericColumns)
}

func TestRender_MissingInput(t *testing.T) {
	assert.Error(t, Render(filepath.Join(t.TempDir(), "nope.csv"), t.TempDir()))
}

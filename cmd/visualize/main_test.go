package main

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matfeat/pkg/data"
	"matfeat/pkg/visualize"
)

func TestVisualizeCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "features_cleaned.csv")
	tbl := &data.Table{Columns: []string{"a", "b", data.FilenameColumn}}
	for i := 0; i < 12; i++ {
		tbl.Records = append(tbl.Records, []string{strconv.Itoa(i), strconv.Itoa(i * i % 7), "s.cif"})
	}
	require.NoError(t, data.Save(in, tbl))

	out := filepath.Join(dir, "plots")
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--input", in, "--output-dir", out})
	require.NoError(t, cmd.Execute())
	for _, name := range []string{visualize.DistributionsFile, visualize.HeatmapFile, visualize.PairPlotFile} {
		assert.FileExists(t, filepath.Join(out, name))
	}
}

func TestVisualizeCommand_RequiresInput(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--output-dir", t.TempDir()})
	assert.Error(t, cmd.Execute())
}

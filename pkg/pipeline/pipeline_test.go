package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"matfeat/pkg/batch"
	"matfeat/pkg/config"
	"matfeat/pkg/data"
	"matfeat/pkg/dataprep"
	"matfeat/pkg/featurize"
	"matfeat/pkg/visualize"
)

func TestPipeline_StopsAtFirstFailure(t *testing.T) {
	var ran []string
	step := func(name string, err error) Step {
		return NewStep(name, func() error {
			ran = append(ran, name)
			return err
		})
	}
	boom := errors.New("boom")
	core, logs := observer.New(zapcore.InfoLevel)

	p := NewPipeline(zap.New(core), step("a", nil), step("b", boom), step("c", nil))
	err := p.Run()
	assert.ErrorIs(t, err, boom)
	assert.EqualError(t, err, "b: boom")
	assert.Equal(t, []string{"a", "b"}, ran)
	assert.Equal(t, 1, logs.FilterMessage("step failed").Len())
}

func TestDefault(t *testing.T) {
	p, err := Default(config.Defaults(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"featurize", "clean", "visualize"}, p.Steps())

	cfg := config.Defaults()
	cfg.FillMethod = "mode"
	_, err = Default(cfg, nil, nil)
	assert.ErrorIs(t, err, dataprep.ErrUnknownFillMethod)
}

func TestDefault_EmptyInputStops(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.InputDir = t.TempDir()
	cfg.FeaturesPath = filepath.Join(dir, "features.csv")
	cfg.CleanedPath = filepath.Join(dir, "cleaned.csv")
	cfg.PlotsDir = filepath.Join(dir, "plots")

	p, err := Default(cfg, nil, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, p.Run(), ErrNoFeatures)
	assert.NoFileExists(t, cfg.CleanedPath)
	assert.NoDirExists(t, cfg.PlotsDir)
}

const cubicTemplate = `data_%s
_cell_length_a %s
_cell_length_b %s
_cell_length_c %s
_cell_angle_alpha 90
_cell_angle_beta 90
_cell_angle_gamma 90
loop_
_atom_site_type_symbol
_atom_site_fract_x
_atom_site_fract_y
_atom_site_fract_z
%s 0 0 0
%s 0.5 0.5 0.5
`

func sprintfCubic(name, a, first, second string) string {
	return fmt.Sprintf(cubicTemplate, name, a, a, a, first, second)
}

func TestPipeline_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "data", "raw")
	require.NoError(t, os.MkdirAll(raw, 0o755))
	for name, body := range map[string]string{
		"CsCl.cif":   sprintfCubic("CsCl", "4.12", "Cs", "Cl"),
		"CsBr.cif":   sprintfCubic("CsBr", "4.29", "Cs", "Br"),
		"TlCl.cif":   sprintfCubic("TlCl", "3.84", "Tl", "Cl"),
		"FeAl.cif":   sprintfCubic("FeAl", "2.91", "Fe", "Al"),
		"broken.cif": "data_x\n",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(raw, name), []byte(body), 0o644))
	}

	features := filepath.Join(dir, "results", "features", "features.csv")
	cleaned := filepath.Join(dir, "data", "processed", "features_cleaned.csv")
	plots := filepath.Join(dir, "results", "plots")

	driver := &batch.Driver{
		Extractor: featurize.NewExtractor([]featurize.Descriptor{
			{Name: "stoichiometry", Level: featurize.CompositionLevel, Featurizer: featurize.NewStoichiometry()},
			{Name: "element_property", Level: featurize.CompositionLevel, Featurizer: featurize.NewElementProperty()},
			{Name: "density", Level: featurize.StructureLevel, Featurizer: featurize.DensityFeatures{}},
		}),
		Workers: 2,
	}
	logger := zap.NewNop()
	p := NewPipeline(logger,
		FeaturizeStep(driver, raw, features),
		CleanStep(features, cleaned, dataprep.DefaultPolicy(), logger),
		VisualizeStep(cleaned, plots, logger),
	)
	require.NoError(t, p.Run())

	tbl, err := data.Load(cleaned)
	require.NoError(t, err)
	rows, _ := tbl.Shape()
	assert.Equal(t, 4, rows)
	assert.Zero(t, tbl.TotalMissing())
	for _, name := range []string{visualize.DistributionsFile, visualize.HeatmapFile, visualize.PairPlotFile} {
		assert.FileExists(t, filepath.Join(plots, name))
	}
}

package batch

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"matfeat/pkg/data"
	"matfeat/pkg/featurize"
	"matfeat/pkg/logging"
)

const structures = "testdata/structures"

func fastDriver(logger *zap.Logger) *Driver {
	return &Driver{
		Extractor: featurize.NewExtractor([]featurize.Descriptor{
			{Name: "stoichiometry", Level: featurize.CompositionLevel, Featurizer: featurize.NewStoichiometry()},
			{Name: "density", Level: featurize.StructureLevel, Featurizer: featurize.DensityFeatures{}},
			{Name: "rdf", Level: featurize.StructureLevel, Featurizer: &featurize.RadialDistribution{Cutoff: 4, BinSize: 0.5}},
		}),
		Workers:   2,
		Extension: ".cif",
		Logger:    logger,
	}
}

func filenames(t *testing.T, tbl *data.Table) []string {
	t.Helper()
	c := tbl.Index(data.FilenameColumn)
	require.GreaterOrEqual(t, c, 0)
	names := tbl.Column(c)
	sort.Strings(names)
	return names
}

func TestDiscover(t *testing.T) {
	files, err := Discover(structures, ".cif")
	require.NoError(t, err)
	want := []string{
		filepath.Join(structures, "CsCl.cif"),
		filepath.Join(structures, "Fe.cif"),
		filepath.Join(structures, "NaCl.cif"),
		filepath.Join(structures, "corrupted.cif"),
	}
	assert.Equal(t, want, files)

	_, err = Discover(filepath.Join(t.TempDir(), "missing"), ".cif")
	assert.Error(t, err)
}

func TestRun_SkipsFailedFiles(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	out := filepath.Join(t.TempDir(), "results", "features.csv")

	reg := prometheus.NewRegistry()
	d := fastDriver(zap.New(core))
	d.Metrics = NewMetrics(reg)

	sum, err := d.Run(structures, out)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Discovered)
	assert.Equal(t, 3, sum.Succeeded)
	assert.True(t, sum.Written)
	require.Len(t, sum.Failures, 1)
	assert.Equal(t, "corrupted.cif", filepath.Base(sum.Failures[0].File))

	failed := logs.FilterMessage("failed to featurize").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.WarnLevel, failed[0].Level)
	assert.Contains(t, failed[0].ContextMap()["file"], "corrupted.cif")
	assert.Equal(t, sum.RunID, failed[0].ContextMap()["run_id"])

	tbl, err := data.Load(out)
	require.NoError(t, err)
	rows, cols := tbl.Shape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 6+3+8+1, cols)
	assert.Equal(t, data.FilenameColumn, tbl.Columns[cols-1])
	assert.Equal(t, []string{"CsCl.cif", "Fe.cif", "NaCl.cif"}, filenames(t, tbl))

	assert.Equal(t, 4.0, testutil.ToFloat64(d.Metrics.Discovered))
	assert.Equal(t, 3.0, testutil.ToFloat64(d.Metrics.Featurized))
	assert.Equal(t, 1.0, testutil.ToFloat64(d.Metrics.Failed))

	metricsPath := filepath.Join(t.TempDir(), "metrics", "matfeat.prom")
	require.NoError(t, WriteMetrics(metricsPath, reg))
	b, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "matfeat_files_failed_total 1")
}

func TestRun_FailureLoggedOnceToFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "featurization.log")
	logger, closeFn, err := logging.New(logging.Config{Level: "info", FilePath: logPath})
	require.NoError(t, err)

	_, err = fastDriver(logger).Run(structures, filepath.Join(dir, "features.csv"))
	require.NoError(t, err)
	require.NoError(t, closeFn())

	b, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(b), "failed to featurize"))
	assert.Contains(t, string(b), "corrupted.cif")
}

func TestRun_EmptyDirectoryWritesNothing(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	in := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.txt"), []byte("x"), 0o644))
	out := filepath.Join(t.TempDir(), "features.csv")

	sum, err := fastDriver(zap.New(core)).Run(in, out)
	require.NoError(t, err)
	assert.Zero(t, sum.Discovered)
	assert.False(t, sum.Written)
	assert.Equal(t, 1, logs.Len())
	assert.NoFileExists(t, out)
}

type failAll struct{}

func (failAll) Extract(path string) (*data.Row, error) { return nil, errors.New("unreadable") }

func TestRun_AllFailWritesNothing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "features.csv")
	d := &Driver{Extractor: failAll{}, Workers: 3}

	sum, err := d.Run(structures, out)
	require.NoError(t, err)
	assert.Len(t, sum.Failures, 4)
	assert.NoFileExists(t, out)
}

func TestRun_Idempotent(t *testing.T) {
	dir := t.TempDir()
	first, second := filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv")

	_, err := fastDriver(nil).Run(structures, first)
	require.NoError(t, err)
	d := fastDriver(nil)
	d.Workers = 1
	_, err = d.Run(structures, second)
	require.NoError(t, err)

	a, err := data.Load(first)
	require.NoError(t, err)
	b, err := data.Load(second)
	require.NoError(t, err)

	byRow := cmpopts.SortSlices(func(x, y []string) bool {
		return strings.Join(x, ",") < strings.Join(y, ",")
	})
	assert.Equal(t, a.Columns, b.Columns)
	if diff := cmp.Diff(a.Records, b.Records, byRow); diff != "" {
		t.Errorf("row sets differ (-first +second):\n%s", diff)
	}
}

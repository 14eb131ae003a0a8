// Package batch runs the feature extractor over a directory of structure files
// with a bounded number of workers and writes the merged feature table.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"matfeat/pkg/data"
	"matfeat/pkg/featurize"
)

const (
	DefaultWorkers   = 4
	DefaultExtension = ".cif"
)

// Extractor turns one file into a feature row.
type Extractor interface {
	Extract(path string) (*data.Row, error)
}

// Failure records one file that produced no row.
type Failure struct {
	File string
	Err  error
}

// Summary describes a finished batch.
type Summary struct {
	RunID      string
	Discovered int
	Succeeded  int
	Failures   []Failure
	// Written is false when no file succeeded and no table was saved.
	Written bool
	Columns int
}

// Driver fans structure files out to Extractor.
type Driver struct {
	Extractor Extractor
	Workers   int
	Extension string
	Logger    *zap.Logger
	Metrics   *Metrics
}

// NewDriver returns a driver using the default descriptors.
func NewDriver(workers int, logger *zap.Logger) *Driver {
	return &Driver{
		Extractor: featurize.NewExtractor(featurize.DefaultDescriptors()),
		Workers:   workers,
		Extension: DefaultExtension,
		Logger:    logger,
	}
}

// Discover lists the files in dir with the given extension, sorted by name.
// Subdirectories are not searched.
func Discover(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ext {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// Run featurizes every matching file in inputDir and saves the successful rows
// to outputPath. Per-file failures are logged and never abort the batch.
func (d *Driver) Run(inputDir, outputPath string) (*Summary, error) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := d.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}
	ext := d.Extension
	if ext == "" {
		ext = DefaultExtension
	}

	sum := &Summary{RunID: uuid.NewString()}
	logger = logger.With(zap.String("run_id", sum.RunID))
	start := time.Now()

	files, err := Discover(inputDir, ext)
	if err != nil {
		return nil, err
	}
	sum.Discovered = len(files)
	if d.Metrics != nil {
		d.Metrics.Discovered.Add(float64(len(files)))
	}
	logger.Info("featurizing", zap.Int("files", len(files)), zap.Int("workers", workers), zap.String("input_dir", inputDir))

	var (
		mu   sync.Mutex
		rows []*data.Row
	)
	var g errgroup.Group
	g.SetLimit(workers)
	for _, path := range files {
		path := path
		g.Go(func() error {
			row, err := d.Extractor.Extract(path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn("failed to featurize", zap.String("file", path), zap.Error(err))
				sum.Failures = append(sum.Failures, Failure{File: path, Err: err})
				if d.Metrics != nil {
					d.Metrics.Failed.Inc()
				}
				return nil
			}
			rows = append(rows, row)
			if d.Metrics != nil {
				d.Metrics.Featurized.Inc()
			}
			return nil
		})
	}
	_ = g.Wait()
	sum.Succeeded = len(rows)
	if d.Metrics != nil {
		d.Metrics.Duration.Observe(time.Since(start).Seconds())
	}

	if len(rows) == 0 {
		logger.Warn("no structures were featurized, nothing written", zap.Int("failed", len(sum.Failures)))
		return sum, nil
	}

	t := data.FromRows(rows)
	if err := data.Save(outputPath, t); err != nil {
		return sum, fmt.Errorf("write features: %w", err)
	}
	sum.Written = true
	sum.Columns = len(t.Columns)
	logger.Info("features saved",
		zap.String("output", outputPath),
		zap.Int("rows", len(rows)),
		zap.Int("failed", len(sum.Failures)),
		zap.Duration("elapsed", time.Since(start)))
	return sum, nil
}

// Package pipeline chains the featurize, clean and visualize stages.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"matfeat/pkg/batch"
	"matfeat/pkg/config"
	"matfeat/pkg/dataprep"
	"matfeat/pkg/visualize"
)

// ErrNoFeatures stops the pipeline when no structure could be featurized.
var ErrNoFeatures = errors.New("no features were produced")

// Step is one stage of a pipeline.
type Step interface {
	Name() string
	Run() error
}

type stepFunc struct {
	name string
	run  func() error
}

func (s stepFunc) Name() string { return s.name }
func (s stepFunc) Run() error   { return s.run() }

// NewStep wraps fn as a named step.
func NewStep(name string, fn func() error) Step {
	return stepFunc{name: name, run: fn}
}

// Pipeline runs steps in order.
type Pipeline struct {
	steps  []Step
	logger *zap.Logger
}

func NewPipeline(logger *zap.Logger, steps ...Step) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{steps: steps, logger: logger}
}

// Steps returns the step names in run order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name()
	}
	return names
}

// Run executes every step, stopping at the first failure.
func (p *Pipeline) Run() error {
	for i, s := range p.steps {
		start := time.Now()
		p.logger.Info("running step", zap.String("step", s.Name()), zap.Int("index", i+1), zap.Int("of", len(p.steps)))
		if err := s.Run(); err != nil {
			p.logger.Error("step failed", zap.String("step", s.Name()), zap.Error(err))
			return fmt.Errorf("%s: %w", s.Name(), err)
		}
		p.logger.Info("step finished", zap.String("step", s.Name()), zap.Duration("elapsed", time.Since(start)))
	}
	return nil
}

// FeaturizeStep runs d over inputDir and fails with ErrNoFeatures when no
// table was written.
func FeaturizeStep(d *batch.Driver, inputDir, outputPath string) Step {
	return NewStep("featurize", func() error {
		sum, err := d.Run(inputDir, outputPath)
		if err != nil {
			return err
		}
		if !sum.Written {
			return fmt.Errorf("%w from %s", ErrNoFeatures, inputDir)
		}
		return nil
	})
}

// CleanStep cleans the feature table at inputPath.
func CleanStep(inputPath, outputPath string, policy dataprep.Policy, logger *zap.Logger) Step {
	return NewStep("clean", func() error {
		_, err := dataprep.CleanFile(inputPath, outputPath, policy, logger)
		return err
	})
}

// VisualizeStep renders the plots of the table at inputPath.
func VisualizeStep(inputPath, outputDir string, logger *zap.Logger) Step {
	if logger == nil {
		logger = zap.NewNop()
	}
	return NewStep("visualize", func() error {
		if err := visualize.Render(inputPath, outputDir); err != nil {
			return err
		}
		logger.Info("plots saved", zap.String("output_dir", outputDir))
		return nil
	})
}

// Default builds featurize, clean and visualize over the paths in cfg.
// metrics may be nil.
func Default(cfg config.Pipeline, logger *zap.Logger, metrics *batch.Metrics) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fill, err := dataprep.ParseFillMethod(cfg.FillMethod)
	if err != nil {
		return nil, err
	}
	policy := dataprep.Policy{NaNThreshold: cfg.NaNThreshold, Fill: fill}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	driver := batch.NewDriver(cfg.Workers, logger)
	driver.Metrics = metrics
	return NewPipeline(logger,
		FeaturizeStep(driver, cfg.InputDir, cfg.FeaturesPath),
		CleanStep(cfg.FeaturesPath, cfg.CleanedPath, policy, logger),
		VisualizeStep(cfg.CleanedPath, cfg.PlotsDir, logger),
	), nil
}

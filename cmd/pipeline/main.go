// Command pipeline runs featurize, clean and visualize over the default
// project layout. MATFEAT_CONFIG may name a YAML file overriding the layout.
package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"matfeat/pkg/batch"
	"matfeat/pkg/config"
	"matfeat/pkg/logging"
	"matfeat/pkg/pipeline"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("MATFEAT_CONFIG"))
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(logging.Config{Level: cfg.LogLevel, FilePath: cfg.LogFile, Console: true})
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()

	reg := prometheus.NewRegistry()
	p, err := pipeline.Default(*cfg, logger, batch.NewMetrics(reg))
	if err != nil {
		return err
	}
	if err := p.Run(); err != nil {
		return err
	}
	if cfg.MetricsFile != "" {
		if err := batch.WriteMetrics(cfg.MetricsFile, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	logger.Info("pipeline complete",
		zap.String("features", cfg.FeaturesPath),
		zap.String("cleaned", cfg.CleanedPath),
		zap.String("plots", cfg.PlotsDir))
	return nil
}

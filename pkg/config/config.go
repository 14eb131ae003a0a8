// Package config holds the settings of the end-to-end pipeline run.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment override, e.g. MATFEAT_WORKERS.
const EnvPrefix = "MATFEAT"

// Pipeline configures the featurize, clean and visualize stages.
type Pipeline struct {
	InputDir     string  `yaml:"input_dir" envconfig:"INPUT_DIR" validate:"required"`
	FeaturesPath string  `yaml:"features_path" envconfig:"FEATURES_PATH" validate:"required"`
	CleanedPath  string  `yaml:"cleaned_path" envconfig:"CLEANED_PATH" validate:"required"`
	LogFile      string  `yaml:"log_file" envconfig:"LOG_FILE" validate:"required"`
	PlotsDir     string  `yaml:"plots_dir" envconfig:"PLOTS_DIR" validate:"required"`
	MetricsFile  string  `yaml:"metrics_file" envconfig:"METRICS_FILE"`
	Workers      int     `yaml:"workers" envconfig:"WORKERS" validate:"min=1"`
	NaNThreshold float64 `yaml:"nan_threshold" envconfig:"NAN_THRESHOLD" validate:"min=0,max=1"`
	FillMethod   string  `yaml:"fill_method" envconfig:"FILL_METHOD" validate:"oneof=mean median none"`
	LogLevel     string  `yaml:"log_level" envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`
}

// Defaults returns the fixed layout used when nothing is configured.
func Defaults() Pipeline {
	return Pipeline{
		InputDir:     "data/raw",
		FeaturesPath: "results/features/features.csv",
		CleanedPath:  "data/processed/features_cleaned.csv",
		LogFile:      "results/logs/featurization.log",
		PlotsDir:     "results/plots",
		Workers:      4,
		NaNThreshold: 0.2,
		FillMethod:   "mean",
		LogLevel:     "info",
	}
}

// Load starts from Defaults, applies the YAML file at path (skipped when path
// is empty), then a .env file in the working directory if present, then
// MATFEAT_* environment variables, and validates the result.
func Load(path string) (*Pipeline, error) {
	cfg := Defaults()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and enumerations.
func (p *Pipeline) Validate() error {
	if err := validator.New().Struct(p); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"matfeat/pkg/batch"
	"matfeat/pkg/featurize"
	"matfeat/pkg/logging"
)

//
// --input-dir    : Directory containing .cif structure files (not searched recursively)
// --output       : Feature table to write (.csv, or .xlsx)
// --log-file     : Log file, appended to; failed structures are recorded here
// --workers      : Number of structures featurized at once. Default = 4
// --metrics-file : Optional Prometheus textfile with batch counters
// --list-features: Print every feature column with its description and exit
//
// Example:
//   featurize --input-dir data/raw --output results/features/features.csv --log-file results/logs/featurization.log
//

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		inputDir, output, logFile, metricsFile string
		workers                                int
		listFeatures                           bool
	)

	cmd := &cobra.Command{
		Use:           "featurize",
		Short:         "Compute structural and compositional descriptors for a directory of CIF files",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listFeatures {
				for _, f := range featurize.FeatureLabels(featurize.DefaultDescriptors()) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", f.Column, f.Label)
				}
				return nil
			}
			for name, v := range map[string]string{"input-dir": inputDir, "output": output, "log-file": logFile} {
				if v == "" {
					return fmt.Errorf("required flag %q not set", name)
				}
			}

			logger, closeLog, err := logging.New(logging.Config{Level: "info", FilePath: logFile, Console: true})
			if err != nil {
				return fmt.Errorf("open log: %w", err)
			}
			defer closeLog()

			reg := prometheus.NewRegistry()
			driver := batch.NewDriver(workers, logger)
			driver.Metrics = batch.NewMetrics(reg)

			sum, err := driver.Run(inputDir, output)
			if err != nil {
				logger.Error("featurization failed", zap.Error(err))
				return err
			}
			if metricsFile != "" {
				if err := batch.WriteMetrics(metricsFile, reg); err != nil {
					return fmt.Errorf("write metrics: %w", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Featurized %d of %d structures (%d failed)\n",
				sum.Succeeded, sum.Discovered, len(sum.Failures))
			if sum.Written {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %d features to %s\n", sum.Columns-1, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputDir, "input-dir", "", "Directory containing CIF files")
	cmd.Flags().StringVar(&output, "output", "", "Output feature table")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Log file")
	cmd.Flags().IntVar(&workers, "workers", batch.DefaultWorkers, "Number of parallel workers")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Prometheus textfile to write after the run")
	cmd.Flags().BoolVar(&listFeatures, "list-features", false, "Print the feature columns and exit")
	return cmd
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"matfeat/pkg/logging"
	"matfeat/pkg/visualize"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var input, outputDir string

	cmd := &cobra.Command{
		Use:           "visualize",
		Short:         "Plot feature distributions, correlations and pairwise relationships",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.Console()
			defer logger.Sync()

			if err := visualize.Render(input, outputDir); err != nil {
				return err
			}
			for _, name := range []string{visualize.DistributionsFile, visualize.HeatmapFile, visualize.PairPlotFile} {
				logger.Info("saved plot", zap.String("path", filepath.Join(outputDir, name)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Cleaned feature table")
	cmd.Flags().StringVar(&outputDir, "output-dir", "results/plots", "Directory for the PNG files")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

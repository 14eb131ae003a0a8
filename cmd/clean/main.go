package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"matfeat/pkg/dataprep"
	"matfeat/pkg/logging"
)

//
// --input         : Feature table produced by featurize
// --output        : Cleaned table to write
// --nan-threshold : Drop columns with more than this fraction missing. Default = 0.2
// --fill-method   : mean, median or none (drop incomplete rows). Default = mean
//

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		input, output string
		threshold     float64
		fillMethod    string
	)

	cmd := &cobra.Command{
		Use:           "clean",
		Short:         "Drop sparse feature columns and fill the remaining missing values",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fill, err := dataprep.ParseFillMethod(fillMethod)
			if err != nil {
				return err
			}
			policy := dataprep.Policy{NaNThreshold: threshold, Fill: fill}

			logger := logging.Console()
			defer logger.Sync()

			rep, err := dataprep.CleanFile(input, output, policy, logger)
			if err != nil {
				return err
			}
			rep.Fprint(cmd.OutOrStdout())
			return nil
		},
	}

	def := dataprep.DefaultPolicy()
	cmd.Flags().StringVar(&input, "input", "", "Input feature table")
	cmd.Flags().StringVar(&output, "output", "", "Output cleaned table")
	cmd.Flags().Float64Var(&threshold, "nan-threshold", def.NaNThreshold, "Drop columns with more missing values than this fraction")
	cmd.Flags().StringVar(&fillMethod, "fill-method", string(def.Fill), "How to handle remaining missing values: mean, median or none")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

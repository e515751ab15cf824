package cli

import (
	"fmt"

	"github.com/DjordjeVuckovic/client-ingest/internal/generator"
	"github.com/DjordjeVuckovic/client-ingest/internal/processor"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	size      string
	errorRate float64
	output    string
	seed      uint64
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic client file",
		Long: `Generate a synthetic client file of roughly the requested size.

Examples:
  ingest generate --size 500mb
  ingest generate --size 10kb --error-rate 0.1 --output /tmp/clients.dat`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			targetBytes, err := generator.ParseSize(opts.size)
			if err != nil {
				return err
			}

			output := opts.output
			if output == "" {
				cfg, err := processor.LoadEnv()
				if err != nil {
					return fmt.Errorf("load pipeline config: %w", err)
				}
				output = cfg.InputFile
			}

			var genOpts []generator.Option
			if cmd.Flags().Changed("seed") {
				genOpts = append(genOpts, generator.WithSeed(opts.seed))
			}

			stats, err := generator.GenerateFile(cmd.Context(), output, generator.EstimateRecords(targetBytes), opts.errorRate, genOpts...)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records (%d invalid, %d bytes) to %s\n", stats.Records, stats.Invalid, stats.Bytes, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.size, "size", "s", "10mb", "target file size (e.g. 2gb, 500mb, 10kb)")
	cmd.Flags().Float64VarP(&opts.errorRate, "error-rate", "e", 0, "share of malformed lines, between 0 and 1")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: the configured input file)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed for reproducible output")

	return cmd
}

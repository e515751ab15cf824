package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/client-ingest/internal/processor"
	"github.com/DjordjeVuckovic/client-ingest/internal/storage/factory"
	"github.com/spf13/cobra"
)

type processOptions struct {
	input           string
	batchSize       int
	checkpointFile  string
	flushOnShutdown bool
}

func newProcessCmd() *cobra.Command {
	opts := &processOptions{}

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process the input file into storage",
		Long: `Process the input file into storage.

Interrupting with Ctrl-C (or SIGTERM) finishes the batch being written, keeps
the checkpoint and exits. Running the command again resumes from there.

Examples:
  ingest process
  ingest process --input data/clients.dat --batch-size 5000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runProcess(ctx, cmd.OutOrStdout(), cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "input file (default INPUT_FILE or "+processor.DefaultInputFile+")")
	cmd.Flags().IntVarP(&opts.batchSize, "batch-size", "b", 0, "records per batch (default BATCH_SIZE or 1000)")
	cmd.Flags().StringVar(&opts.checkpointFile, "checkpoint", "", "checkpoint file (default CHECKPOINT_FILE)")
	cmd.Flags().BoolVar(&opts.flushOnShutdown, "flush-on-shutdown", false, "flush the partial batch when interrupted")

	return cmd
}

func runProcess(ctx context.Context, out io.Writer, cmd *cobra.Command, opts *processOptions) error {
	cfg, err := processor.LoadEnv(func(c *processor.Config) {
		if opts.input != "" {
			c.InputFile = opts.input
		}
		if opts.batchSize != 0 {
			c.BatchSize = opts.batchSize
		}
		if opts.checkpointFile != "" {
			c.CheckpointFile = opts.checkpointFile
		}
		if cmd.Flags().Changed("flush-on-shutdown") {
			c.FlushOnShutdown = opts.flushOnShutdown
		}
	})
	if err != nil {
		return fmt.Errorf("load pipeline config: %w", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		return fmt.Errorf("load storage config: %w", err)
	}
	store, err := factory.NewStorage(ctx, *storageCfg)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}
	defer store.Close()

	summary, err := cfg.Build(store.Storer, processor.WithName("cli-ingest")).Run(ctx)
	if err != nil {
		return err
	}

	printSummary(out, summary)
	return nil
}

func printSummary(w io.Writer, s *processor.Summary) {
	state := "completed"
	if s.Interrupted {
		state = "interrupted (checkpoint kept, run again to resume)"
	}
	fmt.Fprintf(w, "Run %s %s\n", s.RunID, state)
	fmt.Fprintf(w, "  lines read:       %d (skipped %d)\n", s.TotalLines, s.Skipped)
	fmt.Fprintf(w, "  inserted:         %d\n", s.Inserted)
	fmt.Fprintf(w, "  rejected lines:   %d (%d in failed-lines log)\n", s.Failed, s.FailedLinesLogged)
	fmt.Fprintf(w, "  failed batches:   %d (%d records spilled)\n", s.FailedBatches, s.SpilledRecords)
	fmt.Fprintf(w, "  elapsed:          %s\n", s.Elapsed)
}

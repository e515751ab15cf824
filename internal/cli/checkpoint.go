package cli

import (
	"fmt"

	"github.com/DjordjeVuckovic/client-ingest/internal/checkpoint"
	"github.com/DjordjeVuckovic/client-ingest/internal/processor"
	"github.com/spf13/cobra"
)

func newCheckpointCmd() *cobra.Command {
	var path string

	store := func() (*checkpoint.FileStore, error) {
		if path != "" {
			return checkpoint.NewFileStore(path), nil
		}
		cfg, err := processor.LoadEnv()
		if err != nil {
			return nil, fmt.Errorf("load pipeline config: %w", err)
		}
		return checkpoint.NewFileStore(cfg.CheckpointFile), nil
	}

	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Inspect or reset the processing checkpoint",
	}
	cmd.PersistentFlags().StringVar(&path, "file", "", "checkpoint file (default CHECKPOINT_FILE)")

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the number of lines already processed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store()
			if err != nil {
				return err
			}
			if !s.Exists() {
				fmt.Fprintf(cmd.OutOrStdout(), "No checkpoint at %s\n", s.Path())
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d lines processed\n", s.Path(), s.Load())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the checkpoint so the next run starts from the first line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store()
			if err != nil {
				return err
			}
			if err := s.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", s.Path())
			return nil
		},
	})

	return cmd
}

// Package cli provides the command-line interface for client-ingest.
package cli

import (
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/client-ingest/pkg/config/env"
	"github.com/DjordjeVuckovic/client-ingest/pkg/logging"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

type rootOptions struct {
	logLevel   string
	logFile    string
	configFile string

	closeLog func() error
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Stream pipe-delimited client files into storage",
		Long: `ingest reads a pipe-delimited client file line by line, validates every
record and writes valid ones to storage in batches. Progress is checkpointed
after every batch, so an interrupted run resumes where it stopped.

Storage is selected with STORAGE_TYPE (pg, es, in_mem). Pipeline settings come
from an optional YAML file and the environment (INPUT_FILE, BATCH_SIZE,
CHECKPOINT_FILE, ...); flags win over both.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := env.LoadDotEnv(os.Getenv("APP_ENV"), ".env"); err != nil {
				slog.Debug("No .env loaded", "error", err)
			}
			if opts.configFile != "" {
				if err := os.Setenv("INGEST_CONFIG", opts.configFile); err != nil {
					return err
				}
			}

			levelName := opts.logLevel
			if !cmd.Flags().Changed("log-level") {
				levelName = env.GetOr("LOG_LEVEL", opts.logLevel)
			}
			level, err := logging.ParseLevel(levelName)
			if err != nil {
				return err
			}
			logFile := opts.logFile
			if logFile == "" {
				logFile = os.Getenv("LOG_FILE")
			}
			opts.closeLog, err = logging.Setup(level, logFile)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.closeLog != nil {
				_ = opts.closeLog()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "also write JSON logs to this file")
	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "YAML pipeline config file")

	cmd.AddCommand(newProcessCmd())
	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newCheckpointCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

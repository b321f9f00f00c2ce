package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "promptlab",
		Short: "promptlab - prompt evaluation harness for voice journal reflections",
		Long: `promptlab evaluates the prompts that turn spoken work reflections into
structured summaries and task lists.

It generates a synthetic dataset with known answers, runs every prompt version
against a language model, scores the output and formats or merges the results.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&a.projectDir, "project-dir", ".", "Directory to search (upwards) for .promptlab.yaml and .env files")
	cmd.PersistentFlags().StringVar(&a.datasetDirFlag, "dataset-dir", "", "Directory holding datasets and results (overrides paths.dataset)")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
		return a.load()
	}

	// Add subcommands
	cmd.AddCommand(newGenerateCommand(a))
	cmd.AddCommand(newRunCommand(a))
	cmd.AddCommand(newFormatCommand(a))
	cmd.AddCommand(newMergeCommand(a))
	cmd.AddCommand(newCompareCommand(a))
	cmd.AddCommand(newValidateCommand(a))
	cmd.AddCommand(newCacheCommand(a))
	cmd.AddCommand(newPromptsCommand(a))

	return cmd
}

func execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	return rootCmd.ExecuteContext(ctx)
}

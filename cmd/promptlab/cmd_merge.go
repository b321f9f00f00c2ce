package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/voicejournal/promptlab/internal/reporting"
	"github.com/voicejournal/promptlab/internal/storage"
)

func newMergeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge [summary.json] [tasks.json]",
		Short: "Combine the summary and task sections of two result files",
		Long: `Combine the summary section of one result file with the tasks section of
another into experiment_results_combined_<timestamp>.json.

The summary source defaults to the newest result file and the tasks source
defaults to the summary source.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mergeE(cmd, a, args)
		},
	}
	return cmd
}

func mergeE(cmd *cobra.Command, a *app, args []string) error {
	ctx := cmd.Context()

	store, err := a.store()
	if err != nil {
		return err
	}

	summaryName := ""
	if len(args) > 0 {
		summaryName = args[0]
	} else {
		summaryName, err = reporting.LatestResult(ctx, store)
		if errors.Is(err, reporting.ErrNoResults) {
			return errors.New("Missing experiment results files. Run experiments first.") //nolint:staticcheck
		}
		if err != nil {
			return err
		}
	}
	tasksName := summaryName
	if len(args) > 1 {
		tasksName = args[1]
	}

	summarySrc, err := reporting.ReadResult(ctx, store, summaryName)
	if err != nil {
		return notFoundForMerge(err)
	}
	tasksSrc, err := reporting.ReadResult(ctx, store, tasksName)
	if err != nil {
		return notFoundForMerge(err)
	}

	now := time.Now().UTC()
	merged, err := reporting.Merge(summarySrc, tasksSrc, summaryName, tasksName, now)
	if err != nil {
		return err
	}

	outName := reporting.CombinedName(now)
	if err := store.Write(ctx, outName, merged); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", store.Location(outName))
	return nil
}

func notFoundForMerge(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("One or more result files not found: %w", err) //nolint:staticcheck
	}
	return err
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/voicejournal/promptlab/internal/dataset"
)

type generateOptions struct {
	variants  int
	scenarios string
	output    string
}

func newGenerateCommand(a *app) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the synthetic evaluation dataset",
		Long: `Generate the synthetic evaluation dataset.

Each built-in scenario (plus any rows from --scenarios) is expanded into
--variants transcripts with their known ground truth. The dataset is written
to the dataset directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateE(cmd, a, opts)
		},
	}

	cmd.Flags().IntVar(&opts.variants, "variants", dataset.DefaultVariants, "Transcript variants per scenario")
	cmd.Flags().StringVar(&opts.scenarios, "scenarios", "", "CSV file with extra scenarios (role,wins,drains,future_focus,tasks)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", dataset.DefaultName, "Dataset file name")

	return cmd
}

func generateE(cmd *cobra.Command, a *app, opts *generateOptions) error {
	if opts.variants < 1 {
		return fmt.Errorf("--variants must be at least 1, got %d", opts.variants)
	}

	scenarios := dataset.Scenarios()
	if opts.scenarios != "" {
		extra, err := dataset.LoadScenariosCSV(opts.scenarios)
		if err != nil {
			return err
		}
		scenarios = append(scenarios, extra...)
	}

	store, err := a.store()
	if err != nil {
		return err
	}

	ds := dataset.Generate(scenarios, opts.variants, time.Now().UTC())
	if err := dataset.Save(cmd.Context(), store, opts.output, ds); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d samples to %s\n", len(ds.Samples), store.Location(opts.output))
	return nil
}

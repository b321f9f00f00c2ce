package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/voicejournal/promptlab/internal/dataset"
	"github.com/voicejournal/promptlab/internal/models"
	"github.com/voicejournal/promptlab/internal/prompts"
	"github.com/voicejournal/promptlab/internal/tokens"
)

type promptsOptions struct {
	family      string
	show        string
	file        string
	sampleIndex int
}

func newPromptsCommand(a *app) *cobra.Command {
	opts := &promptsOptions{}

	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "List prompt versions or print a rendered prompt",
		Long: `List the prompt versions of each family in run order with the estimated
prompt size per call over the built-in corpus.

With --show <version> the prompt is rendered for a generated sample
transcript instead, exactly as it would be sent to the model.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return promptsE(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.family, "family", "", "Only this family: summary or tasks")
	cmd.Flags().StringVar(&opts.show, "show", "", "Render this prompt version (requires --family)")
	cmd.Flags().StringVar(&opts.file, "prompts", "", "YAML file with extra prompt versions")
	cmd.Flags().IntVar(&opts.sampleIndex, "sample", 0, "Index of the generated sample used by --show")

	return cmd
}

func promptsE(cmd *cobra.Command, opts *promptsOptions) error {
	out := cmd.OutOrStdout()

	library := prompts.Default()
	if opts.file != "" {
		if err := library.LoadFile(opts.file); err != nil {
			return err
		}
	}

	families := models.Families()
	if opts.family != "" {
		f, err := models.ParseFamily(opts.family)
		if err != nil {
			return err
		}
		families = []models.Family{f}
	}

	if opts.show != "" {
		if opts.family == "" {
			return fmt.Errorf("--show requires --family")
		}
		return showPrompt(cmd, library, families[0], opts.show, opts.sampleIndex)
	}

	samples := exampleSamples()
	counter := tokens.NewEstimatingCounter()
	for _, f := range families {
		fmt.Fprintf(out, "%s:\n", f)
		for _, v := range library.Versions(f) {
			texts := make([]string, 0, len(samples))
			for _, s := range samples {
				text, err := v.BuildFor(s)
				if err != nil {
					return fmt.Errorf("rendering %s/%s: %w", f, v.Name, err)
				}
				texts = append(texts, text)
			}
			fmt.Fprintf(out, "  %-20s ~%d tokens\n", v.Name, tokens.Total(counter, texts)/len(texts))
		}
	}
	return nil
}

// exampleSamples is the built-in corpus as generate writes it.
func exampleSamples() []models.Sample {
	return dataset.Generate(dataset.Scenarios(), dataset.DefaultVariants, time.Time{}).Samples
}

func showPrompt(cmd *cobra.Command, library *prompts.Library, family models.Family, name string, index int) error {
	v, ok := library.Lookup(family, name)
	if !ok {
		return fmt.Errorf("unknown %s prompt version %q", family, name)
	}

	samples := exampleSamples()
	if index < 0 || index >= len(samples) {
		return fmt.Errorf("--sample must be between 0 and %d", len(samples)-1)
	}

	text, err := v.BuildFor(samples[index])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

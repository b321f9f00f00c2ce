package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voicejournal/promptlab/internal/reporting"
)

// report is one file produced by format.
type report struct {
	name   string
	render func() ([]byte, error)
}

type formatOptions struct {
	html      bool
	csv       bool
	detail    bool
	junit     bool
	threshold float64
	interpret bool
}

func newFormatCommand(a *app) *cobra.Command {
	opts := &formatOptions{}

	cmd := &cobra.Command{
		Use:   "format [result.json]",
		Short: "Render a result file as Markdown and text reports",
		Long: `Render a result file as Markdown and plain-text reports written next to it
(<name>.md and <name>.txt).

Without an argument the newest experiment_results_*.json in the dataset
directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return formatE(cmd, a, opts, name)
		},
	}

	cmd.Flags().BoolVar(&opts.html, "html", false, "Also write <name>.html")
	cmd.Flags().BoolVar(&opts.csv, "csv", false, "Also write per-sample scores to <name>.csv")
	cmd.Flags().BoolVar(&opts.detail, "detail", false, "Append spread and bootstrap confidence intervals to the Markdown report")
	cmd.Flags().BoolVar(&opts.junit, "junit", false, "Also write <name>.junit.xml for CI")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", 0.5, "Minimum average score for a passing JUnit test case (0-1)")
	cmd.Flags().BoolVar(&opts.interpret, "interpret", false, "Print a plain-language interpretation of the scores")

	return cmd
}

func formatE(cmd *cobra.Command, a *app, opts *formatOptions, name string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	store, err := a.store()
	if err != nil {
		return err
	}
	name, err = resolveResult(ctx, store, name)
	if err != nil {
		return err
	}
	result, err := reporting.LoadResult(ctx, store, name)
	if err != nil {
		return missingResult(store, name, err)
	}

	base := reporting.BaseName(name)
	markdown := reporting.FormatMarkdown(result)
	if opts.detail {
		markdown += "\n" + reporting.FormatDetailMarkdown(result)
	}

	outputs := []report{
		{base + ".md", func() ([]byte, error) { return []byte(markdown), nil }},
		{base + ".txt", func() ([]byte, error) { return []byte(reporting.FormatText(result)), nil }},
	}
	if opts.html {
		outputs = append(outputs, report{base + ".html", func() ([]byte, error) {
			return reporting.RenderHTML("Experiment Results: "+base, markdown)
		}})
	}
	if opts.csv {
		outputs = append(outputs, report{base + ".csv", func() ([]byte, error) {
			var buf bytes.Buffer
			if err := reporting.WriteSampleCSV(&buf, result); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		}})
	}
	if opts.junit {
		outputs = append(outputs, report{base + ".junit.xml", func() ([]byte, error) {
			return reporting.MarshalJUnit(result, opts.threshold)
		}})
	}

	for _, o := range outputs {
		data, err := o.render()
		if err != nil {
			return fmt.Errorf("rendering %s: %w", o.name, err)
		}
		if err := store.Write(ctx, o.name, data); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", store.Location(o.name))
	}

	if opts.interpret {
		fmt.Fprintln(out)
		fmt.Fprint(out, strings.TrimRight(reporting.FormatInterpretation(result), "\n")+"\n")
	}
	return nil
}

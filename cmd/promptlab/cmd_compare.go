package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/voicejournal/promptlab/internal/metrics"
	"github.com/voicejournal/promptlab/internal/models"
	"github.com/voicejournal/promptlab/internal/reporting"
	"github.com/voicejournal/promptlab/internal/statistics"
)

// compareSeed keeps bootstrap intervals stable between invocations.
const compareSeed = 42

type compareOptions struct {
	family string
	format string
}

// versionComparison is the paired comparison of two prompt versions over
// the same samples.
type versionComparison struct {
	File           string                        `json:"file"`
	Family         models.Family                 `json:"family"`
	VersionA       string                        `json:"version_a"`
	VersionB       string                        `json:"version_b"`
	Samples        int                           `json:"samples"`
	MeanA          float64                       `json:"mean_a"`
	MeanB          float64                       `json:"mean_b"`
	Delta          statistics.ConfidenceInterval `json:"delta"`
	Significant    bool                          `json:"significant"`
	NormalizedGain float64                       `json:"normalized_gain"`
}

func newCompareCommand(a *app) *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare <result.json> <versionA> <versionB>",
		Short: "Compare two prompt versions from one result file",
		Long: `Compare two prompt versions of the same family using their per-sample
scores from one result file.

Reports both means, a paired bootstrap 95% confidence interval for the
difference (B minus A) and whether it excludes zero.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compareE(cmd, a, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.family, "family", string(models.FamilyTasks), "Prompt family: summary or tasks")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "Output format: table or json")

	return cmd
}

func compareE(cmd *cobra.Command, a *app, opts *compareOptions, args []string) error {
	if opts.format != "table" && opts.format != "json" {
		return fmt.Errorf("unsupported format %q: must be table or json", opts.format)
	}
	family, err := models.ParseFamily(opts.family)
	if err != nil {
		return err
	}

	store, err := a.store()
	if err != nil {
		return err
	}
	result, err := reporting.LoadResult(cmd.Context(), store, args[0])
	if err != nil {
		return missingResult(store, args[0], err)
	}

	cmp, err := compareVersions(result, family, args[1], args[2])
	if err != nil {
		return err
	}
	cmp.File = args[0]

	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cmp)
	}
	printComparisonTable(cmd.OutOrStdout(), cmp)
	return nil
}

func compareVersions(result *models.ExperimentResult, family models.Family, versionA, versionB string) (*versionComparison, error) {
	fr := result.Family(family)
	if fr.Empty() {
		return nil, fmt.Errorf("result has no %s scores", family)
	}
	a, ok := fr.RawScores[versionA]
	if !ok {
		return nil, fmt.Errorf("no %s scores for version %q", family, versionA)
	}
	b, ok := fr.RawScores[versionB]
	if !ok {
		return nil, fmt.Errorf("no %s scores for version %q", family, versionB)
	}

	delta, err := statistics.PairedDelta(a, b, 0.95, compareSeed)
	if err != nil {
		return nil, err
	}

	meanA, meanB := metrics.Mean(a), metrics.Mean(b)
	return &versionComparison{
		Family:         family,
		VersionA:       versionA,
		VersionB:       versionB,
		Samples:        len(a),
		MeanA:          meanA,
		MeanB:          meanB,
		Delta:          delta,
		Significant:    statistics.IsSignificant(delta),
		NormalizedGain: statistics.NormalizedGain(meanA, meanB),
	}, nil
}

func printComparisonTable(w io.Writer, c *versionComparison) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle(fmt.Sprintf("%s: %s vs %s (%d samples)", c.Family, c.VersionA, c.VersionB, c.Samples))
	tw.AppendHeader(table.Row{"Metric", "Value"})
	tw.AppendRow(table.Row{"Mean " + c.VersionA, fmt.Sprintf("%.1f%%", c.MeanA*100)})
	tw.AppendRow(table.Row{"Mean " + c.VersionB, fmt.Sprintf("%.1f%%", c.MeanB*100)})
	tw.AppendRow(table.Row{"Delta (B-A)", fmt.Sprintf("%+.1f%%", c.Delta.Mean*100)})
	tw.AppendRow(table.Row{"95% CI", fmt.Sprintf("[%+.1f%%, %+.1f%%]", c.Delta.Lower*100, c.Delta.Upper*100)})
	tw.AppendRow(table.Row{"Significant", yesNo(c.Significant)})
	tw.AppendRow(table.Row{"Normalized gain", fmt.Sprintf("%.2f", c.NormalizedGain)})
	tw.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

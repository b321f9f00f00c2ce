package reporting

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/voicejournal/promptlab/internal/metrics"
	"github.com/voicejournal/promptlab/internal/models"
	"github.com/voicejournal/promptlab/internal/statistics"
)

const (
	// bootstrapSeed keeps report intervals stable between renders.
	bootstrapSeed  = 42
	reportCILevel  = 0.95
	createdAtStamp = "2006-01-02T15:04:05.000Z"
)

// FormatMarkdown renders the title block and one table per non-empty family,
// versions in alphabetical order.
func FormatMarkdown(result *models.ExperimentResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Experiment Results (%s)\n\n", result.CreatedAt.UTC().Format(createdAtStamp))
	fmt.Fprintf(&b, "- Dataset: %s (%d samples)\n", result.DatasetVersion, result.DatasetSize)
	fmt.Fprintf(&b, "- Model: %s\n", result.Model)
	fmt.Fprintf(&b, "- Mode: %s\n", result.Mode)
	if result.Sources != nil {
		fmt.Fprintf(&b, "- Sources: summary from `%s`, tasks from `%s`\n", result.Sources.Summary, result.Sources.Tasks)
	}

	for _, family := range models.Families() {
		section := result.Family(family)
		if section.Empty() {
			continue
		}
		fmt.Fprintf(&b, "\n### %s\n\n", familyTitle(family))
		b.WriteString("| Prompt Version | Avg Score |\n")
		b.WriteString("| --- | --- |\n")
		for _, v := range section.Versions() {
			fmt.Fprintf(&b, "| %s | %s |\n", v, formatPercent(section.Averages[v]))
		}
	}

	return b.String()
}

// FormatDetailMarkdown renders spread and a bootstrap interval per version.
// Families without raw scores are skipped.
func FormatDetailMarkdown(result *models.ExperimentResult) string {
	var b strings.Builder

	for _, family := range models.Families() {
		section := result.Family(family)
		if section == nil || len(section.RawScores) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n### %s: detail\n\n", familyTitle(family))
		b.WriteString("| Prompt Version | Avg Score | Std Dev | Range | 95% CI | n | Rating |\n")
		b.WriteString("| --- | --- | --- | --- | --- | --- | --- |\n")
		for _, v := range section.Versions() {
			raw := section.RawScores[v]
			ci := statistics.BootstrapCIWithSeed(raw, reportCILevel, bootstrapSeed)
			lo, hi := metrics.MinMax(raw)
			fmt.Fprintf(&b, "| %s | %s | %.3f | %s to %s | %s to %s | %d | %s |\n",
				v,
				formatPercent(section.Averages[v]),
				metrics.StdDev(raw),
				formatPercent(lo),
				formatPercent(hi),
				formatPercent(ci.Lower),
				formatPercent(ci.Upper),
				len(raw),
				InterpretScore(section.Averages[v]))
		}
	}

	return b.String()
}

var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML converts a Markdown report into a standalone HTML page.
func RenderHTML(title, markdown string) ([]byte, error) {
	var body bytes.Buffer
	if err := markdownRenderer.Convert([]byte(markdown), &body); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(title))
	page.WriteString("<style>body{font-family:sans-serif;max-width:48rem;margin:2rem auto}table{border-collapse:collapse}th,td{border:1px solid #ccc;padding:.25rem .75rem}</style>\n")
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

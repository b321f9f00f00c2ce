// Package reporting turns persisted experiment results into text, Markdown,
// HTML, CSV and JUnit reports and merges results from separate runs.
package reporting

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/voicejournal/promptlab/internal/models"
)

const (
	labelWidth = 28
	valueWidth = 6
)

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func formatRow(label, value string) string {
	return runewidth.FillRight(label, labelWidth) + " " + runewidth.FillLeft(value, valueWidth)
}

// FormatText renders both families as a fixed-width table. A missing family
// renders its heading with no rows. Versions are listed alphabetically, not in
// run order, since the result file does not keep registration order.
func FormatText(result *models.ExperimentResult) string {
	var lines []string
	for i, family := range models.Families() {
		if i > 0 {
			lines = append(lines, "")
		}
		title := familyTitle(family)
		lines = append(lines, title, strings.Repeat("-", len(title)))

		section := result.Family(family)
		for _, v := range section.Versions() {
			lines = append(lines, formatRow(v, formatPercent(section.Averages[v])))
		}
	}
	return strings.Join(lines, "\n")
}

package orchestration

import (
	"fmt"
	"io"

	"github.com/voicejournal/promptlab/internal/models"
)

// FormatConsoleSummary prints the per-version averages in the compact form
// shown at the end of a run. Versions are listed alphabetically.
func FormatConsoleSummary(w io.Writer, result *models.ExperimentResult) {
	sections := []struct {
		title  string
		family *models.FamilyResult
	}{
		{"Summary scores:", result.Summary},
		{"Task scores (F1):", result.Tasks},
	}
	for _, s := range sections {
		fmt.Fprintln(w, s.title)
		for _, version := range s.family.Versions() {
			fmt.Fprintf(w, "  %s: %.1f%%\n", version, s.family.Averages[version]*100)
		}
	}
}

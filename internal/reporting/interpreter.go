package reporting

import (
	"fmt"
	"strings"

	"github.com/voicejournal/promptlab/internal/models"
)

// InterpretScore returns a plain-language label for a numeric score (0–1).
func InterpretScore(score float64) string {
	pct := score * 100
	switch {
	case pct > 90:
		return "Excellent (>90%)"
	case pct >= 70:
		return "Good (70-90%)"
	case pct >= 50:
		return "Needs Work (50-70%)"
	default:
		return "Poor (<50%)"
	}
}

// BestVersion returns the version with the highest average, breaking ties
// by name. ok is false for an empty family.
func BestVersion(f *models.FamilyResult) (version string, avg float64, ok bool) {
	for _, v := range f.Versions() {
		if !ok || f.Averages[v] > avg {
			version, avg, ok = v, f.Averages[v], true
		}
	}
	return version, avg, ok
}

// FormatInterpretation produces a short plain-language reading of a result.
func FormatInterpretation(result *models.ExperimentResult) string {
	var b strings.Builder

	b.WriteString("=== Interpretation ===\n")
	for _, family := range models.Families() {
		section := result.Family(family)
		if section.Empty() {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", familyTitle(family))
		for _, v := range section.Versions() {
			avg := section.Averages[v]
			fmt.Fprintf(&b, "  %s: %.2f, %s\n", v, avg, InterpretScore(avg))
		}
		if best, avg, ok := BestVersion(section); ok {
			fmt.Fprintf(&b, "  Best: %s (%s)\n", best, formatPercent(avg))
		}
	}

	return b.String()
}

func familyTitle(f models.Family) string {
	if f == models.FamilyTasks {
		return "Task Experiment Results (F1)"
	}
	return "Summary Experiment Results"
}

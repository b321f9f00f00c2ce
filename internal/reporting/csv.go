package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/voicejournal/promptlab/internal/models"
)

// WriteSampleCSV writes one row per scored call: family, version, sample id
// and score. Results without per-sample detail fall back to raw scores with
// an empty sample id.
func WriteSampleCSV(w io.Writer, result *models.ExperimentResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"family", "version", "sample_id", "score"}); err != nil {
		return err
	}

	for _, family := range models.Families() {
		section := result.Family(family)
		if section == nil {
			continue
		}
		for _, v := range section.Versions() {
			if samples := section.Samples[v]; len(samples) > 0 {
				for _, s := range samples {
					if err := cw.Write([]string{string(family), v, s.SampleID, formatScore(s.Score)}); err != nil {
						return err
					}
				}
				continue
			}
			for _, score := range section.RawScores[v] {
				if err := cw.Write([]string{string(family), v, "", formatScore(score)}); err != nil {
					return err
				}
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

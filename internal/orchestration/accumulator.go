package orchestration

import (
	"github.com/voicejournal/promptlab/internal/metrics"
	"github.com/voicejournal/promptlab/internal/models"
)

// Accumulator collects per-call scores grouped by family and prompt
// version. It is not safe for concurrent use; the runner folds worker
// output into it from a single goroutine.
type Accumulator struct {
	families map[models.Family]*familyScores
}

type familyScores struct {
	order   []string
	raw     map[string][]float64
	samples map[string][]models.SampleScore
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{families: make(map[models.Family]*familyScores)}
}

// Add appends one scored call. Scores keep insertion order per version.
func (a *Accumulator) Add(family models.Family, version string, score models.SampleScore) {
	fs, ok := a.families[family]
	if !ok {
		fs = &familyScores{
			raw:     make(map[string][]float64),
			samples: make(map[string][]models.SampleScore),
		}
		a.families[family] = fs
	}
	if _, seen := fs.raw[version]; !seen {
		fs.order = append(fs.order, version)
	}
	fs.raw[version] = append(fs.raw[version], score.Score)
	fs.samples[version] = append(fs.samples[version], score)
}

// Len returns the number of scores recorded for a family and version.
func (a *Accumulator) Len(family models.Family, version string) int {
	if fs, ok := a.families[family]; ok {
		return len(fs.raw[version])
	}
	return 0
}

// Finalize returns the aggregated section for a family. A family that
// never received a score yields empty, non-nil maps.
func (a *Accumulator) Finalize(family models.Family) *models.FamilyResult {
	out := &models.FamilyResult{
		Averages:  map[string]float64{},
		RawScores: map[string][]float64{},
		Samples:   map[string][]models.SampleScore{},
	}
	fs, ok := a.families[family]
	if !ok {
		return out
	}
	for _, version := range fs.order {
		raw := append([]float64(nil), fs.raw[version]...)
		out.RawScores[version] = raw
		out.Averages[version] = metrics.Mean(raw)
		out.Samples[version] = append([]models.SampleScore(nil), fs.samples[version]...)
	}
	return out
}

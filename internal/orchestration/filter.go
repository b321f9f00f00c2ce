package orchestration

import (
	"fmt"
	"path/filepath"

	"github.com/voicejournal/promptlab/internal/models"
)

// FilterSamples returns the subset of samples whose ID or role matches at
// least one of the given glob patterns. An empty patterns slice returns all
// samples unchanged.
func FilterSamples(samples []models.Sample, patterns []string) ([]models.Sample, error) {
	if len(patterns) == 0 {
		return samples, nil
	}

	var matched []models.Sample
	for _, s := range samples {
		ok, err := matchesAny(s, patterns)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, s)
		}
	}
	return matched, nil
}

// matchesAny reports whether a sample's ID or role matches any pattern.
func matchesAny(s models.Sample, patterns []string) (bool, error) {
	for _, p := range patterns {
		idMatch, err := filepath.Match(p, s.ID)
		if err != nil {
			return false, fmt.Errorf("invalid sample filter pattern %q: %w", p, err)
		}
		if idMatch {
			return true, nil
		}
		roleMatch, err := filepath.Match(p, s.Role)
		if err != nil {
			return false, fmt.Errorf("invalid sample filter pattern %q: %w", p, err)
		}
		if roleMatch {
			return true, nil
		}
	}
	return false, nil
}

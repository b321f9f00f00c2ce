package models

import "time"

// GroundTruth is the known-correct extraction for a sample.
type GroundTruth struct {
	Wins        []string `json:"wins"`
	Drains      []string `json:"drains"`
	FutureFocus []string `json:"future_focus"`
	Tasks       []Task   `json:"tasks"`
}

// Sample is one synthetic transcript paired with its ground truth.
type Sample struct {
	ID          string      `json:"id"`
	Role        string      `json:"role"`
	Transcript  string      `json:"transcript"`
	GroundTruth GroundTruth `json:"ground_truth"`
}

// Dataset is a versioned collection of samples.
type Dataset struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Samples   []Sample  `json:"samples"`
}

// Limit returns at most n samples from the front of the dataset. A negative
// n returns every sample.
func (d *Dataset) Limit(n int) []Sample {
	if n < 0 || n >= len(d.Samples) {
		return d.Samples
	}
	return d.Samples[:n]
}

package reporting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/voicejournal/promptlab/internal/models"
)

// resultHeader is the subset of a result file needed to merge it. The
// family sections stay raw so they are copied exactly.
type resultHeader struct {
	DatasetVersion string          `json:"dataset_version"`
	DatasetSize    int             `json:"dataset_size"`
	Model          string          `json:"model"`
	Summary        json.RawMessage `json:"summary"`
	Tasks          json.RawMessage `json:"tasks"`
}

type combinedResult struct {
	CreatedAt      time.Time       `json:"created_at"`
	DatasetVersion string          `json:"dataset_version"`
	DatasetSize    int             `json:"dataset_size"`
	Model          string          `json:"model"`
	Mode           models.Mode     `json:"mode"`
	Summary        json.RawMessage `json:"summary,omitempty"`
	Tasks          json.RawMessage `json:"tasks,omitempty"`
	Sources        models.Sources  `json:"sources"`
}

// Merge builds a combined result from the summary section of one result
// file and the tasks section of another. Both may be the same file. Header
// fields come from the summary source unless it leaves them empty. A
// source lacking its section yields a combined result without it.
func Merge(summarySrc, tasksSrc []byte, summaryName, tasksName string, now time.Time) ([]byte, error) {
	var s, t resultHeader
	if err := json.Unmarshal(summarySrc, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", summaryName, err)
	}
	if err := json.Unmarshal(tasksSrc, &t); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", tasksName, err)
	}

	merged := combinedResult{
		CreatedAt:      now.UTC(),
		DatasetVersion: firstNonEmpty(s.DatasetVersion, t.DatasetVersion),
		DatasetSize:    s.DatasetSize,
		Model:          firstNonEmpty(s.Model, t.Model),
		Mode:           models.ModeCombined,
		Summary:        section(s.Summary),
		Tasks:          section(t.Tasks),
		Sources:        models.Sources{Summary: summaryName, Tasks: tasksName},
	}
	if merged.DatasetSize == 0 {
		merged.DatasetSize = t.DatasetSize
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding combined result: %w", err)
	}
	return data, nil
}

// section drops a JSON null so it is omitted like a missing key.
func section(raw json.RawMessage) json.RawMessage {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	return raw
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Family identifies a prompt family (a task type the model is asked to do).
type Family string

const (
	FamilySummary Family = "summary"
	FamilyTasks   Family = "tasks"
)

// Families returns both families in run order.
func Families() []Family {
	return []Family{FamilySummary, FamilyTasks}
}

// ParseFamily validates a family name.
func ParseFamily(s string) (Family, error) {
	switch f := Family(strings.ToLower(strings.TrimSpace(s))); f {
	case FamilySummary, FamilyTasks:
		return f, nil
	default:
		return "", fmt.Errorf("invalid family %q: must be summary or tasks", s)
	}
}

// Mode selects which families an experiment covers.
type Mode string

const (
	ModeSummary  Mode = "summary"
	ModeTasks    Mode = "tasks"
	ModeBoth     Mode = "both"
	ModeCombined Mode = "combined"
)

// ParseMode validates a mode given on the command line. "combined" is
// reserved for merged results and is rejected here.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeSummary, ModeTasks, ModeBoth:
		return m, nil
	default:
		return "", fmt.Errorf("invalid mode %q: must be summary, tasks, or both", s)
	}
}

// Includes reports whether the mode runs the given family.
func (m Mode) Includes(f Family) bool {
	switch m {
	case ModeBoth, ModeCombined:
		return true
	case ModeSummary:
		return f == FamilySummary
	case ModeTasks:
		return f == FamilyTasks
	}
	return false
}

// SummaryScores holds the per-field recall scores of a summary extraction.
type SummaryScores struct {
	Wins        float64 `json:"wins"`
	Drains      float64 `json:"drains"`
	FutureFocus float64 `json:"future_focus"`
	Overall     float64 `json:"overall"`
}

// TaskScores holds the matching metrics of a task extraction.
type TaskScores struct {
	Recall           float64 `json:"recall"`
	Precision        float64 `json:"precision"`
	F1               float64 `json:"f1"`
	CategoryAccuracy float64 `json:"category_accuracy"`
}

// SampleScore ties a scalar score back to the sample that produced it.
type SampleScore struct {
	SampleID string         `json:"sample_id"`
	Score    float64        `json:"score"`
	Summary  *SummaryScores `json:"summary,omitempty"`
	Tasks    *TaskScores    `json:"tasks,omitempty"`
}

// FamilyResult is the aggregated outcome of one family across prompt versions.
type FamilyResult struct {
	Averages  map[string]float64       `json:"averages"`
	RawScores map[string][]float64     `json:"raw_scores"`
	Samples   map[string][]SampleScore `json:"samples,omitempty"`
}

// Versions returns the prompt versions present in the averages, sorted by name.
func (f *FamilyResult) Versions() []string {
	if f == nil {
		return nil
	}
	names := make([]string, 0, len(f.Averages))
	for name := range f.Averages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the family has no versions.
func (f *FamilyResult) Empty() bool {
	return f == nil || len(f.Averages) == 0
}

// Sources records which files a combined result was assembled from.
type Sources struct {
	Summary string `json:"summary"`
	Tasks   string `json:"tasks"`
}

// ExperimentResult is the persisted outcome of an experiment run, or of a
// merge of two runs when Mode is ModeCombined.
type ExperimentResult struct {
	CreatedAt      time.Time     `json:"created_at"`
	DatasetVersion string        `json:"dataset_version"`
	DatasetSize    int           `json:"dataset_size"`
	Mode           Mode          `json:"mode"`
	Model          string        `json:"model"`
	RunID          string        `json:"run_id,omitempty"`
	Engine         string        `json:"engine,omitempty"`
	Summary        *FamilyResult `json:"summary,omitempty"`
	Tasks          *FamilyResult `json:"tasks,omitempty"`
	Sources        *Sources      `json:"sources,omitempty"`
}

// Family returns the section for f, or nil when absent.
func (r *ExperimentResult) Family(f Family) *FamilyResult {
	switch f {
	case FamilySummary:
		return r.Summary
	case FamilyTasks:
		return r.Tasks
	}
	return nil
}

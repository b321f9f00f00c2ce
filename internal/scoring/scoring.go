package scoring

import (
	"github.com/voicejournal/promptlab/internal/metrics"
	"github.com/voicejournal/promptlab/internal/models"
	"github.com/voicejournal/promptlab/internal/prediction"
)

// ScoreArray returns the fraction of expected items matched by at least one
// predicted item. It measures recall only: extra predicted items cost
// nothing. Returns 0 when expected is empty.
func ScoreArray(predicted, expected []string) float64 {
	if len(expected) == 0 {
		return 0
	}

	hits := 0
	for _, want := range expected {
		for _, got := range predicted {
			if Similarity(got, want) >= MatchThreshold {
				hits++
				break
			}
		}
	}

	return float64(hits) / float64(len(expected))
}

// ScoreTasks matches each expected task to the first predicted task whose
// text clears MatchThreshold and reports recall, precision, F1 and the
// category accuracy over matched tasks. The first qualifying prediction wins
// even when a later one is more similar, and one prediction may match several
// expected tasks.
func ScoreTasks(predicted, expected []models.Task) models.TaskScores {
	if len(expected) == 0 {
		return models.TaskScores{}
	}

	matched := 0
	correctCategory := 0
	for _, want := range expected {
		for _, got := range predicted {
			if Similarity(got.TaskText, want.TaskText) < MatchThreshold {
				continue
			}
			matched++
			if got.Category == want.Category {
				correctCategory++
			}
			break
		}
	}

	scores := models.TaskScores{
		Recall: float64(matched) / float64(len(expected)),
	}
	if len(predicted) > 0 {
		scores.Precision = float64(matched) / float64(len(predicted))
	}
	if scores.Precision+scores.Recall > 0 {
		scores.F1 = 2 * scores.Precision * scores.Recall / (scores.Precision + scores.Recall)
	}
	if matched > 0 {
		scores.CategoryAccuracy = float64(correctCategory) / float64(matched)
	}
	return scores
}

// ScoreSummary scores each summary field with ScoreArray. Overall is the
// unweighted mean of the three fields, so a field with no expected items
// contributes 0. A nil prediction scores 0 everywhere.
func ScoreSummary(pred *prediction.Summary, truth models.GroundTruth) models.SummaryScores {
	if pred == nil {
		pred = &prediction.Summary{}
	}

	scores := models.SummaryScores{
		Wins:        ScoreArray(pred.Wins, truth.Wins),
		Drains:      ScoreArray(pred.Drains, truth.Drains),
		FutureFocus: ScoreArray(pred.FutureFocus, truth.FutureFocus),
	}
	scores.Overall = metrics.Mean([]float64{scores.Wins, scores.Drains, scores.FutureFocus})
	return scores
}

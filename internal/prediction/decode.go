package prediction

import (
	"log/slog"

	"github.com/go-viper/mapstructure/v2"
	"github.com/voicejournal/promptlab/internal/models"
)

// Summary is the model's structured reading of a reflection.
type Summary struct {
	Wins              []string `json:"wins"`
	Drains            []string `json:"drains"`
	FutureFocus       []string `json:"future_focus"`
	EmotionalTone     string   `json:"emotional_tone,omitempty"`
	EnergyLevel       string   `json:"energy_level,omitempty"`
	EmotionConfidence string   `json:"emotion_confidence,omitempty"`
}

type summaryScalars struct {
	EmotionalTone     string `mapstructure:"emotional_tone"`
	EnergyLevel       string `mapstructure:"energy_level"`
	EmotionConfidence string `mapstructure:"emotion_confidence"`
}

type taskItem struct {
	TaskText string `mapstructure:"task_text"`
	Category string `mapstructure:"category"`
}

// DecodeSummary reads a summary out of a parsed JSON object. A nil object
// yields nil. List fields that are not JSON arrays decode to nil.
func DecodeSummary(raw map[string]any) *Summary {
	if raw == nil {
		return nil
	}

	s := &Summary{
		Wins:        stringList(raw["wins"]),
		Drains:      stringList(raw["drains"]),
		FutureFocus: stringList(raw["future_focus"]),
	}

	var scalars summaryScalars
	if err := weakDecode(raw, &scalars); err != nil {
		slog.Debug("ignoring malformed summary scalars", "error", err)
	}
	s.EmotionalTone = scalars.EmotionalTone
	s.EnergyLevel = scalars.EnergyLevel
	s.EmotionConfidence = scalars.EmotionConfidence
	return s
}

// DecodeTasks reads the "tasks" array out of a parsed JSON object. Items
// that are not objects still occupy a slot (with empty text) so that
// precision is computed over everything the model returned.
func DecodeTasks(raw map[string]any) []models.Task {
	items, ok := raw["tasks"].([]any)
	if !ok {
		return nil
	}

	tasks := make([]models.Task, 0, len(items))
	for _, item := range items {
		var ti taskItem
		if obj, ok := item.(map[string]any); ok {
			if err := weakDecode(obj, &ti); err != nil {
				slog.Debug("ignoring malformed task item", "error", err)
				ti = taskItem{}
			}
		}
		tasks = append(tasks, models.Task{TaskText: ti.TaskText, Category: models.Category(ti.Category)})
	}
	return tasks
}

// stringList converts a JSON array into strings, stringifying scalars the
// way a lenient reader would. Non-arrays return nil.
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if item != nil {
			if err := weakDecode(item, &s); err != nil {
				s = ""
			}
		}
		out = append(out, s)
	}
	return out
}

func weakDecode(input any, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

package dataset

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voicejournal/promptlab/internal/models"
)

var fixedNow = time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)

func TestScenarios_Corpus(t *testing.T) {
	scenarios := Scenarios()
	require.Len(t, scenarios, 15)

	for _, s := range scenarios {
		assert.NotEmpty(t, s.Role)
		assert.Len(t, s.Wins, 2, s.Role)
		assert.Len(t, s.Drains, 1, s.Role)
		assert.Len(t, s.FutureFocus, 1, s.Role)
		require.Len(t, s.Tasks, 4, s.Role)
		for _, task := range s.Tasks {
			assert.True(t, task.Category.Valid(), "%s: %q", s.Role, task.Category)
		}
	}
}

func TestScenarios_ReturnsCopy(t *testing.T) {
	first := Scenarios()
	first[0].Wins[0] = "mutated"
	first[0].Tasks[0].TaskText = "mutated"

	second := Scenarios()
	assert.Equal(t, "Finalized the onboarding flow", second[0].Wins[0])
	assert.Equal(t, "Finalize onboarding flow", second[0].Tasks[0].TaskText)
}

func TestTranscript_Variant0(t *testing.T) {
	s := Scenarios()[0]
	want := "So, quick recap of my day. Today as a product designer, it felt like a steady day overall. " +
		"Big wins were finalized the onboarding flow and polished the empty state illustrations, which was great. " +
		"I also spent time on finalize onboarding flow, polish empty state illustrations, design review with mobile team. i had to pause and circle back a couple times. " +
		"One more thing I handled was send handoff notes to engineering. " +
		"The main drain was context switching between design reviews. i wish i had a longer uninterrupted block. " +
		"Next up, I need to prepare the handoff for engineering. Tomorrow I want to start fresh on that focus item."
	assert.Equal(t, want, Transcript(s, 0))
}

func TestTranscript_VariantOffsets(t *testing.T) {
	s := Scenarios()[1]
	got := Transcript(s, 1)

	assert.True(t, strings.HasPrefix(got, "Alright, here's how today went. Today as a frontend engineer, the morning was a blur"))
	assert.Contains(t, got, "some things took longer than expected.")
	assert.Contains(t, got, "overall it felt solid, just busy.")
	assert.True(t, strings.HasSuffix(got, "I need to make sure I follow through first thing tomorrow."))
}

func TestTranscript_FewTasks(t *testing.T) {
	s := models.Scenario{
		Role:        "barista",
		Wins:        []string{"Fixed the grinder"},
		Drains:      nil,
		FutureFocus: []string{"Order beans"},
		Tasks:       []models.Task{{TaskText: "Fix grinder", Category: models.CategoryCreating}},
	}

	var got string
	require.NotPanics(t, func() { got = Transcript(s, 0) })
	assert.Contains(t, got, "I also spent time on fix grinder.")
	assert.Contains(t, got, "One more thing I handled was fix grinder.")

	s.Tasks = nil
	require.NotPanics(t, func() { got = Transcript(s, 3) })
	assert.Contains(t, got, "One more thing I handled was .")
}

func TestGenerate(t *testing.T) {
	ds := Generate(Scenarios(), DefaultVariants, fixedNow)

	assert.Equal(t, Version, ds.Version)
	assert.Equal(t, fixedNow, ds.CreatedAt)
	require.Len(t, ds.Samples, 30)

	assert.Equal(t, "sample_01", ds.Samples[0].ID)
	assert.Equal(t, "sample_02", ds.Samples[1].ID)
	assert.Equal(t, "sample_30", ds.Samples[29].ID)

	// Both variants of a scenario share ground truth but not phrasing.
	assert.Equal(t, ds.Samples[0].GroundTruth, ds.Samples[1].GroundTruth)
	assert.NotEqual(t, ds.Samples[0].Transcript, ds.Samples[1].Transcript)
	assert.Equal(t, "frontend engineer", ds.Samples[2].Role)

	seen := map[string]bool{}
	for _, s := range ds.Samples {
		assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(Scenarios(), 3, fixedNow)
	b := Generate(Scenarios(), 3, fixedNow)
	assert.Equal(t, a, b)
}

func TestGenerate_GroundTruthIsCopied(t *testing.T) {
	scenarios := Scenarios()
	ds := Generate(scenarios, 1, fixedNow)

	scenarios[0].Wins[0] = "mutated"
	assert.Equal(t, "Finalized the onboarding flow", ds.Samples[0].GroundTruth.Wins[0])
}

func TestGenerate_DefaultVariants(t *testing.T) {
	ds := Generate(Scenarios()[:2], 0, fixedNow)
	assert.Len(t, ds.Samples, 2*DefaultVariants)
}

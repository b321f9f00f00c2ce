// Package dataset builds and persists the synthetic evaluation dataset:
// spoken-style work reflections generated from fixed scenarios, each paired
// with the scenario's facts as ground truth.
package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/voicejournal/promptlab/internal/models"
)

const (
	// DefaultVariants is the number of transcripts generated per scenario.
	DefaultVariants = 2
	// Version is stamped on every generated dataset.
	Version = "v1"
	// DefaultName is the dataset's object name inside the dataset directory.
	DefaultName = "eval_dataset.json"
)

var openers = []string{
	"So, quick recap of my day.",
	"Alright, here's how today went.",
	"Okay, let me think this through.",
	"Short version of today.",
	"If I zoom out on the day.",
}

var fillers = []string{
	"It felt like a steady day overall.",
	"The morning was a blur but the afternoon clicked.",
	"I was juggling a few things at once.",
	"I had to switch gears more than I wanted to.",
	"It was productive but a bit draining.",
}

var middles = []string{
	"I kept bouncing between tasks.",
	"There were a few interruptions.",
	"I had to pause and circle back a couple times.",
	"Some things took longer than expected.",
	"I tried to keep momentum where I could.",
}

var humanTouches = []string{
	"Honestly, that took more energy than I expected.",
	"It was satisfying but also a little exhausting.",
	"I felt like I was in the weeds for a bit.",
	"I wish I had a longer uninterrupted block.",
	"Overall it felt solid, just busy.",
}

var closers = []string{
	"Tomorrow I want to start fresh on that focus item.",
	"I need to make sure I follow through first thing tomorrow.",
	"That’s the main thing I want to tackle next.",
	"I’m hoping to carve out time for that tomorrow.",
	"That’s the big item for the next session.",
}

func pick(pool []string, i int) string {
	return pool[i%len(pool)]
}

// Transcript renders the six-sentence reflection for one scenario variant.
// Fragment choice depends only on the variant index, so output is stable.
func Transcript(s models.Scenario, variant int) string {
	opener := pick(openers, variant)
	filler := pick(fillers, variant)
	middle := pick(middles, variant+2)
	humanTouch := pick(humanTouches, variant+3)
	closer := pick(closers, variant)

	texts := make([]string, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		texts = append(texts, t.TaskText)
	}
	mentions := texts[:min(3, len(texts))]
	extra := ""
	if len(texts) > 0 {
		extra = texts[len(texts)-1]
	}

	lower := strings.ToLower
	return strings.Join([]string{
		fmt.Sprintf("%s Today as a %s, %s", opener, s.Role, lower(filler)),
		fmt.Sprintf("Big wins were %s, which was great.", lower(strings.Join(s.Wins, " and "))),
		fmt.Sprintf("I also spent time on %s. %s", lower(strings.Join(mentions, ", ")), lower(middle)),
		fmt.Sprintf("One more thing I handled was %s.", lower(extra)),
		fmt.Sprintf("The main drain was %s. %s", lower(strings.Join(s.Drains, " and ")), lower(humanTouch)),
		fmt.Sprintf("Next up, I need to %s. %s", lower(strings.Join(s.FutureFocus, " and ")), closer),
	}, " ")
}

// Generate produces variants transcripts per scenario. Sample ids run
// sequentially across the whole corpus (sample_01, sample_02, ...). A
// non-positive variants count falls back to DefaultVariants.
func Generate(scenarios []models.Scenario, variants int, now time.Time) *models.Dataset {
	if variants <= 0 {
		variants = DefaultVariants
	}

	samples := make([]models.Sample, 0, len(scenarios)*variants)
	for _, s := range scenarios {
		for v := 0; v < variants; v++ {
			samples = append(samples, models.Sample{
				ID:          fmt.Sprintf("sample_%02d", len(samples)+1),
				Role:        s.Role,
				Transcript:  Transcript(s, v),
				GroundTruth: s.GroundTruth(),
			})
		}
	}

	return &models.Dataset{
		Version:   Version,
		CreatedAt: now.UTC(),
		Samples:   samples,
	}
}

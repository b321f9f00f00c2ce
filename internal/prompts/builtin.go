package prompts

import (
	"strings"

	"github.com/voicejournal/promptlab/internal/models"
)

const taskShape = `{ "tasks": [ { "task_text": string, "category": "creating|collaborating|communicating|organizing" } ] }`

// lines joins prompt lines with single spaces, the way every built-in
// prompt is laid out, and appends the transcript placeholder.
func lines(parts ...string) string {
	return strings.Join(append(parts, "", "Transcript: {{.Transcript}}"), " ")
}

type builtin struct {
	family models.Family
	name   string
	text   string
}

var builtins = []builtin{
	{models.FamilySummary, "v1_simple", lines(
		"Summarize this work reflection into JSON with keys:",
		"wins (array of strings), drains (array of strings), future_focus (array of strings),",
		"emotional_tone (string), energy_level (string), emotion_confidence (low|medium|high).",
		"Return ONLY valid JSON.",
	)},
	{models.FamilySummary, "v2_structured", lines(
		"You are summarizing a user's workday reflection.",
		"Return ONLY valid JSON with keys:",
		"wins (2-4 items), drains (1-3 items), future_focus (1-3 items),",
		"emotional_tone (single word), energy_level (low|medium|high), emotion_confidence (low|medium|high).",
		"Rules:",
		"- Wins and drains must be concrete events or outcomes.",
		"- Future focus must be next-step intentions.",
	)},
	{models.FamilyTasks, "v1_simple", lines(
		"Extract completed actions from this reflection.",
		"Return ONLY valid JSON with shape:",
		taskShape,
	)},
	{models.FamilyTasks, "v2_structured", lines(
		"Extract only completed actions from this reflection.",
		"Return ONLY valid JSON with shape:",
		taskShape,
		"Rules:",
		"- Only include actions that were completed today.",
		"- Be specific (not 'worked on project').",
		"- Categorize correctly.",
	)},
	{models.FamilyTasks, "v3_examples", lines(
		"Extract completed actions from this reflection.",
		"Return ONLY valid JSON with shape:",
		taskShape,
		"Rules:",
		"- Include actions that were clearly done today.",
		"- If a task was started but not finished, skip it.",
		"- Be specific and concise.",
		"",
		"Examples:",
		`Input: "I fixed the login bug and ran a demo with sales. I also replied to a few emails."`,
		`Output: {"tasks":[{"task_text":"Fix login bug","category":"creating"},{"task_text":"Run demo with sales","category":"collaborating"},{"task_text":"Reply to emails","category":"communicating"}]}`,
		`Input: "I updated the sprint plan, had standup, and drafted the FAQ."`,
		`Output: {"tasks":[{"task_text":"Update sprint plan","category":"organizing"},{"task_text":"Daily standup meeting","category":"collaborating"},{"task_text":"Draft FAQ","category":"creating"}]}`,
	)},
}

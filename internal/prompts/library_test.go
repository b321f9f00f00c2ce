package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voicejournal/promptlab/internal/models"
)

func TestDefault_Versions(t *testing.T) {
	l := Default()

	assert.Equal(t, []string{"v1_simple", "v2_structured"}, l.Names(models.FamilySummary))
	assert.Equal(t, []string{"v1_simple", "v2_structured", "v3_examples"}, l.Names(models.FamilyTasks))
}

func TestDefault_SummaryV1Text(t *testing.T) {
	got, err := Default().Build(models.FamilySummary, "v1_simple", "I shipped it.")
	require.NoError(t, err)

	want := "Summarize this work reflection into JSON with keys: " +
		"wins (array of strings), drains (array of strings), future_focus (array of strings), " +
		"emotional_tone (string), energy_level (string), emotion_confidence (low|medium|high). " +
		"Return ONLY valid JSON.  Transcript: I shipped it."
	assert.Equal(t, want, got)
}

func TestDefault_TasksV1Text(t *testing.T) {
	got, err := Default().Build(models.FamilyTasks, "v1_simple", "x")
	require.NoError(t, err)

	want := `Extract completed actions from this reflection. Return ONLY valid JSON with shape: ` +
		`{ "tasks": [ { "task_text": string, "category": "creating|collaborating|communicating|organizing" } ] }  Transcript: x`
	assert.Equal(t, want, got)
}

func TestDefault_AllVersionsEmbedTranscript(t *testing.T) {
	l := Default()
	transcript := "Today as a founder, it felt like a steady day overall."

	for _, family := range models.Families() {
		for _, v := range l.Versions(family) {
			t.Run(string(family)+"/"+v.Name, func(t *testing.T) {
				got, err := v.Build(transcript)
				require.NoError(t, err)
				assert.True(t, strings.HasSuffix(got, "Transcript: "+transcript))
				assert.Contains(t, got, "Return ONLY valid JSON")
				assert.NotContains(t, got, "{{")
			})
		}
	}
}

func TestDefault_FewShotExamples(t *testing.T) {
	got, err := Default().Build(models.FamilyTasks, "v3_examples", "x")
	require.NoError(t, err)
	assert.Contains(t, got, `- Be specific and concise.  Examples: Input: "I fixed the login bug`)
	assert.Contains(t, got, `{"task_text":"Draft FAQ","category":"creating"}]}  Transcript: x`)
}

func TestBuild_UnknownVersion(t *testing.T) {
	_, err := Default().Build(models.FamilySummary, "v9", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "v1_simple, v2_structured")
}

func TestRegister(t *testing.T) {
	l := Default()

	require.NoError(t, l.Register(models.FamilyTasks, "v4_role", "Tasks for a {{.Role}}: {{.Transcript}}"))
	assert.Equal(t, []string{"v1_simple", "v2_structured", "v3_examples", "v4_role"}, l.Names(models.FamilyTasks))

	v, ok := l.Lookup(models.FamilyTasks, "v4_role")
	require.True(t, ok)
	got, err := v.BuildFor(models.Sample{Role: "nurse lead", Transcript: "rounds"})
	require.NoError(t, err)
	assert.Equal(t, "Tasks for a nurse lead: rounds", got)

	// Re-registering keeps the original position.
	require.NoError(t, l.Register(models.FamilyTasks, "v1_simple", "{{.Transcript}}"))
	assert.Equal(t, "v1_simple", l.Names(models.FamilyTasks)[0])
	got, err = l.Build(models.FamilyTasks, "v1_simple", "only")
	require.NoError(t, err)
	assert.Equal(t, "only", got)
}

func TestRegister_Errors(t *testing.T) {
	l := NewLibrary()

	assert.Error(t, l.Register(models.Family("moods"), "v1", "x"))
	assert.Error(t, l.Register(models.FamilyTasks, " ", "x"))
	assert.Error(t, l.Register(models.FamilyTasks, "v1", "{{.Transcript"))
	assert.Error(t, l.Register(models.FamilyTasks, "v1", "{{.Unknown}}"))
	assert.Empty(t, l.Names(models.FamilyTasks))
}

func TestOnly(t *testing.T) {
	l := Default()

	require.NoError(t, l.Only(models.FamilyTasks, []string{"v3_examples", "v1_simple"}))
	assert.Equal(t, []string{"v3_examples", "v1_simple"}, l.Names(models.FamilyTasks))

	err := l.Only(models.FamilyTasks, []string{"v2_structured"})
	require.Error(t, err)
	assert.Equal(t, []string{"v3_examples", "v1_simple"}, l.Names(models.FamilyTasks))

	require.NoError(t, l.Only(models.FamilySummary, nil))
	assert.Len(t, l.Names(models.FamilySummary), 2)
}

func TestVersions_ReturnsCopy(t *testing.T) {
	l := Default()
	versions := l.Versions(models.FamilySummary)
	versions[0].Name = "changed"
	assert.Equal(t, "v1_simple", l.Names(models.FamilySummary)[0])
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`- family: summary
  name: v3_terse
  template: "JSON only: wins, drains, future_focus. Transcript: {{.Transcript}}"
- family: tasks
  name: v4_terse
  template: "Tasks as JSON. Transcript: {{.Transcript}}"
`), 0o644))

	l := Default()
	require.NoError(t, l.LoadFile(path))

	assert.Equal(t, []string{"v1_simple", "v2_structured", "v3_terse"}, l.Names(models.FamilySummary))
	got, err := l.Build(models.FamilyTasks, "v4_terse", "x")
	require.NoError(t, err)
	assert.Equal(t, "Tasks as JSON. Transcript: x", got)
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- family: moods\n  name: v1\n  template: x\n"), 0o644))

	err := Default().LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is invalid")

	assert.Error(t, Default().LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestLoadFile_Vars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`- family: summary
  name: v3_coach
  template: "Reply as {{.Vars.persona}} in {{.Vars.language}}. Transcript: {{.Transcript}}"
  vars:
    persona: a career coach
    language: English
`), 0o644))

	l := Default()
	require.NoError(t, l.LoadFile(path))

	got, err := l.Build(models.FamilySummary, "v3_coach", "shipped it")
	require.NoError(t, err)
	assert.Equal(t, "Reply as a career coach in English. Transcript: shipped it", got)
}

func TestLoadFile_MissingVar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`- family: tasks
  name: v4_tone
  template: "Tone {{.Vars.tone}}: {{.Transcript}}"
  vars:
    persona: unused
`), 0o644))

	l := Default()
	err := l.LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tasks/v4_tone")
	assert.NotContains(t, l.Names(models.FamilyTasks), "v4_tone")
}

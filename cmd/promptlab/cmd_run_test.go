package main

import (
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicejournal/promptlab/internal/models"
	"github.com/voicejournal/promptlab/internal/prompts"
)

func TestRunCommand_MissingGeminiKey(t *testing.T) {
	dir := projectWithDataset(t)
	t.Setenv("GEMINI_API_KEY", "")

	_, err := executeRoot(t, dir, "run", "--engine", "gemini")
	require.Error(t, err)
	assert.Equal(t, missingKeyMessage, err.Error())
	assert.Equal(t, ExitError, exitCode(err))
	assert.Empty(t, resultFiles(t, dir))
}

func TestRunCommand_MockEngine(t *testing.T) {
	dir := projectWithDataset(t)

	out, err := executeRoot(t, dir, "run", "--engine", "mock", "--sleep-ms", "0", "--limit", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Summary scores:")
	assert.Contains(t, out, "Task scores (F1):")
	assert.Contains(t, out, "Saved results to ")

	files := resultFiles(t, dir)
	require.Len(t, files, 1)
	assert.Contains(t, out, files[0])

	result := loadResult(t, files[0])
	assert.Equal(t, 2, result.DatasetSize)
	assert.Equal(t, models.ModeBoth, result.Mode)
	assert.Equal(t, "mock", result.Engine)
	assert.NotEmpty(t, result.RunID)

	lib := prompts.Default()
	for _, family := range models.Families() {
		fr := result.Family(family)
		require.NotNil(t, fr, family)
		assert.ElementsMatch(t, lib.Names(family), fr.Versions())
		for _, v := range fr.Versions() {
			assert.Len(t, fr.RawScores[v], 2, "%s/%s", family, v)
		}
	}
}

func TestRunCommand_ModeAndVersionFilters(t *testing.T) {
	dir := projectWithDataset(t)

	_, err := executeRoot(t, dir, "run", "--engine", "mock", "--sleep-ms", "0", "--limit", "1",
		"--mode", "tasks", "--task-versions", "v1_simple", "--output", "tasks_only.json")
	require.NoError(t, err)

	result := loadResult(t, filepath.Join(datasetDir(dir), "tasks_only.json"))
	assert.Equal(t, models.ModeTasks, result.Mode)
	assert.True(t, result.Summary.Empty())
	assert.Equal(t, []string{"v1_simple"}, result.Tasks.Versions())
}

func TestRunCommand_SampleFilter(t *testing.T) {
	dir := projectWithDataset(t)

	_, err := executeRoot(t, dir, "run", "--engine", "mock", "--sleep-ms", "0",
		"--sample", "sample_03", "--output", "one.json")
	require.NoError(t, err)

	result := loadResult(t, filepath.Join(datasetDir(dir), "one.json"))
	assert.Equal(t, 1, result.DatasetSize)
	require.NotEmpty(t, result.Summary.Samples["v1_simple"])
	assert.Equal(t, "sample_03", result.Summary.Samples["v1_simple"][0].SampleID)
}

func TestRunCommand_Verbose(t *testing.T) {
	dir := projectWithDataset(t)

	out, err := executeRoot(t, dir, "run", "--engine", "mock", "--sleep-ms", "0", "--limit", "1",
		"--mode", "summary", "--verbose")
	require.NoError(t, err)

	assert.Contains(t, out, "Running 1 sample(s)...")
	assert.Contains(t, out, "[1/1] sample_01 summary v1_simple: ")
	assert.Contains(t, out, "[1/1] sample_01 summary v2_structured: ")
}

func TestRunCommand_InvalidMode(t *testing.T) {
	dir := projectWithDataset(t)

	_, err := executeRoot(t, dir, "run", "--engine", "mock", "--mode", "everything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mode")
}

func TestRunCommand_UnknownVersion(t *testing.T) {
	dir := projectWithDataset(t)

	_, err := executeRoot(t, dir, "run", "--engine", "mock", "--summary-versions", "v9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown summary prompt version "v9"`)
}

func TestRunCommand_MissingDataset(t *testing.T) {
	_, err := executeRoot(t, t.TempDir(), "run", "--engine", "mock")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading dataset")
}

func TestRunCommand_MinScore(t *testing.T) {
	dir := projectWithDataset(t)

	// The mock engine answers with empty lists, so every score is zero.
	_, err := executeRoot(t, dir, "run", "--engine", "mock", "--sleep-ms", "0", "--limit", "1", "--min-score", "0.5")
	require.Error(t, err)

	var thresholdErr *ThresholdError
	require.True(t, errors.As(err, &thresholdErr))
	assert.Equal(t, ExitBelowThreshold, exitCode(err))
	assert.Contains(t, err.Error(), "summary/v1_simple 0.0%")
	assert.Len(t, resultFiles(t, dir), 1, "results are saved before the threshold check")
}

func TestRunCommand_ProjectConfigDefaults(t *testing.T) {
	dir := projectWithDataset(t)
	writeFile(t, filepath.Join(dir, ".promptlab.yaml"), strings.Join([]string{
		"defaults:",
		"  engine: mock",
		"  limit: 1",
		"  mode: summary",
		"  sleep_ms: 0",
		"",
	}, "\n"))

	_, err := executeRoot(t, dir, "run", "--output", "configured.json")
	require.NoError(t, err)

	result := loadResult(t, filepath.Join(datasetDir(dir), "configured.json"))
	assert.Equal(t, 1, result.DatasetSize)
	assert.Equal(t, models.ModeSummary, result.Mode)
	assert.Equal(t, "mock", result.Engine)
}

func TestRunCommand_FlagsOverrideConfig(t *testing.T) {
	dir := projectWithDataset(t)
	writeFile(t, filepath.Join(dir, ".promptlab.yaml"), "defaults:\n  engine: mock\n  limit: 1\n  sleep_ms: 0\n")

	_, err := executeRoot(t, dir, "run", "--limit", "3", "--output", "override.json")
	require.NoError(t, err)

	result := loadResult(t, filepath.Join(datasetDir(dir), "override.json"))
	assert.Equal(t, 3, result.DatasetSize)
}

func TestRunCommand_CacheServesSecondRun(t *testing.T) {
	dir := projectWithDataset(t)
	cacheDir := filepath.Join(dir, "cache")

	args := []string{"run", "--engine", "mock", "--sleep-ms", "0", "--limit", "1", "--mode", "summary",
		"--cache", "--cache-dir", cacheDir, "--verbose"}

	first, err := executeRoot(t, dir, append(args, "--output", "first.json")...)
	require.NoError(t, err)
	assert.NotContains(t, first, "[cached]")

	second, err := executeRoot(t, dir, append(args, "--output", "second.json")...)
	require.NoError(t, err)
	assert.Contains(t, second, "[cached]")
}

func TestCheckThreshold(t *testing.T) {
	result := &models.ExperimentResult{
		CreatedAt: time.Now(),
		Summary:   &models.FamilyResult{Averages: map[string]float64{"a": 0.9, "b": 0.4}},
		Tasks:     &models.FamilyResult{Averages: map[string]float64{"c": 0.2}},
	}

	assert.NoError(t, checkThreshold(result, 0.1))

	err := checkThreshold(result, 0.5)
	require.Error(t, err)
	assert.Equal(t, "2 prompt version(s) below 50.0%: summary/b 40.0%, tasks/c 20.0%", err.Error())
}

func TestBuildLibrary_PromptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	writeFile(t, path, "- family: summary\n  name: v3_terse\n  template: \"Summarize: {{.Transcript}}\"\n")

	lib, err := buildLibrary(&runOptions{prompts: path, summaryVersions: []string{"v3_terse"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"v3_terse"}, lib.Names(models.FamilySummary))

	text, err := lib.Build(models.FamilySummary, "v3_terse", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Summarize: hello", text)
}

func TestRunCommand_Hooks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("hook commands are POSIX")
	}
	dir := projectWithDataset(t)
	writeFile(t, filepath.Join(dir, ".promptlab.yaml"), strings.Join([]string{
		"defaults:",
		"  engine: mock",
		"  limit: 1",
		"  sleep_ms: 0",
		"hooks:",
		"  before_run:",
		"    - command: printenv PROMPTLAB_DATASET_DIR",
		"  after_run:",
		"    - command: printenv PROMPTLAB_RESULT",
		"",
	}, "\n"))

	out, err := executeRoot(t, dir, "run", "--output", "hooked.json")
	require.NoError(t, err)
	assert.Contains(t, out, "[hook:before_run] "+datasetDir(dir)+"\n")
	assert.Contains(t, out, "[hook:after_run] "+filepath.Join(datasetDir(dir), "hooked.json")+"\n")

	out, err = executeRoot(t, dir, "run", "--output", "unhooked.json", "--no-hooks")
	require.NoError(t, err)
	assert.NotContains(t, out, "[hook:")
}

func TestRunCommand_FailingBeforeHookAborts(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("hook commands are POSIX")
	}
	dir := projectWithDataset(t)
	writeFile(t, filepath.Join(dir, ".promptlab.yaml"),
		"defaults:\n  engine: mock\nhooks:\n  before_run:\n    - command: \"false\"\n      error_on_fail: true\n")

	_, err := executeRoot(t, dir, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hook before_run[0]")
	assert.Empty(t, resultFiles(t, dir))
}

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voicejournal/promptlab/internal/models"
	"github.com/voicejournal/promptlab/internal/reporting"
	"github.com/voicejournal/promptlab/internal/storage"
)

// executeRoot runs the root command with --project-dir pointed at dir and
// returns everything it printed.
func executeRoot(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("OPIK_API_KEY", "")

	var buf bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"--project-dir", dir}, args...))
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// projectWithDataset returns a temp project holding a generated dataset.
func projectWithDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := executeRoot(t, dir, "generate")
	require.NoError(t, err)
	return dir
}

func datasetDir(dir string) string {
	return filepath.Join(dir, "dataset")
}

func resultFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(datasetDir(dir), reporting.ResultPrefix+"*.json"))
	require.NoError(t, err)
	return matches
}

func loadResult(t *testing.T, path string) *models.ExperimentResult {
	t.Helper()
	result, err := reporting.LoadResult(context.Background(), storage.NewFSStore(filepath.Dir(path)), filepath.Base(path))
	require.NoError(t, err)
	return result
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

package orchestration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voicejournal/promptlab/internal/models"
)

func filterSamples() []models.Sample {
	return []models.Sample{
		{ID: "sample_01", Role: "software engineer"},
		{ID: "sample_02", Role: "software engineer"},
		{ID: "sample_03", Role: "product designer"},
		{ID: "sample_14", Role: "operations manager"},
	}
}

func TestFilterSamples_NoPatterns(t *testing.T) {
	result, err := FilterSamples(filterSamples(), nil)
	require.NoError(t, err)
	assert.Len(t, result, 4, "empty patterns should return all samples")
}

func TestFilterSamples_ExactID(t *testing.T) {
	result, err := FilterSamples(filterSamples(), []string{"sample_03"})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "product designer", result[0].Role)
}

func TestFilterSamples_RoleGlob(t *testing.T) {
	result, err := FilterSamples(filterSamples(), []string{"software*"})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "sample_01", result[0].ID)
	assert.Equal(t, "sample_02", result[1].ID)
}

func TestFilterSamples_MultiplePatterns(t *testing.T) {
	result, err := FilterSamples(filterSamples(), []string{"sample_01", "operations*"})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "sample_01", result[0].ID)
	assert.Equal(t, "sample_14", result[1].ID)
}

func TestFilterSamples_IDGlob(t *testing.T) {
	result, err := FilterSamples(filterSamples(), []string{"sample_0?"})
	require.NoError(t, err)
	assert.Len(t, result, 3, "? should match a single character in IDs")
}

func TestFilterSamples_NoMatch(t *testing.T) {
	result, err := FilterSamples(filterSamples(), []string{"nonexistent"})
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestFilterSamples_InvalidPattern(t *testing.T) {
	_, err := FilterSamples(filterSamples(), []string{"["})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sample filter pattern")
}

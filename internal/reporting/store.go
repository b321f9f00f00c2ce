package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/voicejournal/promptlab/internal/models"
	"github.com/voicejournal/promptlab/internal/storage"
	"github.com/voicejournal/promptlab/internal/utils"
	"github.com/voicejournal/promptlab/internal/validation"
)

const (
	// ResultPrefix starts the name of every result file, combined ones included.
	ResultPrefix   = "experiment_results_"
	combinedPrefix = ResultPrefix + "combined_"
	resultSuffix   = ".json"

	// LegacyResultName is the fixed name older runs wrote to.
	LegacyResultName = "experiment_results.json"
)

// ErrNoResults is returned when no result file exists yet.
var ErrNoResults = errors.New("no experiment results found")

// ResultName is the default file name for a run finished at t.
func ResultName(t time.Time) string {
	return ResultPrefix + utils.TimestampSlug(t) + resultSuffix
}

// CombinedName is the file name for a merge performed at t.
func CombinedName(t time.Time) string {
	return combinedPrefix + utils.TimestampSlug(t) + resultSuffix
}

// BaseName strips the .json suffix so sibling reports can share the stem.
func BaseName(name string) string {
	return strings.TrimSuffix(name, resultSuffix)
}

// LatestResult returns the name of the newest result file. Names embed a
// sortable timestamp, so the last one in lexical order wins. Combined files
// sort after plain runs of any date. LegacyResultName is used only when no
// timestamped file exists.
func LatestResult(ctx context.Context, store storage.Store) (string, error) {
	names, err := store.List(ctx, BaseName(LegacyResultName))
	if err != nil {
		return "", err
	}
	latest, legacy := "", false
	for _, name := range names {
		switch {
		case name == LegacyResultName:
			legacy = true
		case strings.HasPrefix(name, ResultPrefix) && strings.HasSuffix(name, resultSuffix) && name > latest:
			latest = name
		}
	}
	if latest == "" && legacy {
		return LegacyResultName, nil
	}
	if latest == "" {
		return "", ErrNoResults
	}
	return latest, nil
}

// SaveResult writes result as indented JSON.
func SaveResult(ctx context.Context, store storage.Store, name string, result *models.ExperimentResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return store.Write(ctx, name, data)
}

// ReadResult returns the raw bytes of a result after checking them against
// the result schema.
func ReadResult(ctx context.Context, store storage.Store, name string) ([]byte, error) {
	data, err := store.Read(ctx, name)
	if err != nil {
		return nil, err
	}
	if errs := validation.ValidateResultBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("%s is not a valid result file: %s", name, strings.Join(errs, "; "))
	}
	return data, nil
}

// LoadResult reads, validates and decodes a result file.
func LoadResult(ctx context.Context, store storage.Store, name string) (*models.ExperimentResult, error) {
	data, err := ReadResult(ctx, store, name)
	if err != nil {
		return nil, err
	}
	var result models.ExperimentResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return &result, nil
}

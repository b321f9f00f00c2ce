package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/voicejournal/promptlab/internal/reporting"
	"github.com/voicejournal/promptlab/internal/storage"
)

// resolveResult returns name, or the newest result file when name is empty.
func resolveResult(ctx context.Context, store storage.Store, name string) (string, error) {
	if name != "" {
		return name, nil
	}
	latest, err := reporting.LatestResult(ctx, store)
	if errors.Is(err, reporting.ErrNoResults) {
		return "", fmt.Errorf("Missing %s. Run experiments first.", store.Location(reporting.LegacyResultName)) //nolint:staticcheck
	}
	return latest, err
}

// missingResult rewrites a not-found read into the message the scripts
// users know.
func missingResult(store storage.Store, name string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("Missing %s. Run experiments first.", store.Location(name)) //nolint:staticcheck
	}
	return err
}
